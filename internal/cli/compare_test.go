package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariel-frischer/snaplog/internal/versionlog"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCommand(t *testing.T) {
	tests := map[string]struct {
		args        []string
		wantContain []string
		wantMissing []string
	}{
		"range plain": {
			args: []string{"compare", "1.0.0", "1.2.0", "--plain"},
			wantContain: []string{
				"* 1.2.0  c3c3c3c3c  2020-09-13 12:26  [latest]\n  fix padding\n",
				"* 1.1.0  b2b2b2b2b  2020-09-13 12:26\n",
				"* 1.0.0  a1a1a1a1a  2020-09-13 12:26\n",
				"ui/button: 3 versions between 1.0.0 and 1.2.0\n",
			},
			wantMissing: []string{"d4d4d4d4d", "●"},
		},
		"order of endpoints does not matter": {
			args:        []string{"compare", "v1.2.0", "V1.0.0", "--plain"},
			wantContain: []string{"3 versions between v1.2.0 and V1.0.0"},
		},
		"hash prefixes": {
			args:        []string{"compare", "a1a1", "b2b2b2", "--plain"},
			wantContain: []string{"2 versions between a1a1 and b2b2b2"},
			wantMissing: []string{"1.2.0"},
		},
		"same version twice": {
			args:        []string{"compare", "1.1.0", "1.1.0", "--plain"},
			wantContain: []string{"* 1.1.0", "1 version between 1.1.0 and 1.1.0"},
		},
		"current and latest overrides": {
			args: []string{"compare", "1.0.0", "1.2.0", "--plain", "--current", "1.1.0", "--latest", "1.0.0"},
			wantContain: []string{
				"* 1.1.0  b2b2b2b2b  2020-09-13 12:26  [current]\n",
				"* 1.0.0  a1a1a1a1a  2020-09-13 12:26  [latest]\n",
			},
			wantMissing: []string{"1.2.0  c3c3c3c3c  2020-09-13 12:26  [latest]"},
		},
		"component override": {
			args:        []string{"compare", "1.0.0", "1.1.0", "--plain", "--component", "Button"},
			wantContain: []string{"Button: 2 versions"},
		},
		"markdown": {
			args: []string{"compare", "1.1.0", "1.2.0", "-o", "markdown"},
			wantContain: []string{
				"# Changelog for ui/button (1.1.0...1.2.0)\n",
				"## 1.2.0 - 2020-09-13 `latest`\n",
				"_2 versions between 1.1.0 and 1.2.0_\n",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := writeLog(t, dir, buttonLog)

			out, stderr, err := executeRoot(t, append(tt.args, "--file", path)...)
			require.NoError(t, err, stderr)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, out, missing)
			}
		})
	}
}

func TestCompareCommand_JSON(t *testing.T) {
	dir := isolate(t)
	path := writeLog(t, dir, buttonLog)

	out, _, err := executeRoot(t, "compare", "1.0.0", "1.2.0", "--file", path, "--output", "json")
	require.NoError(t, err)

	var doc struct {
		ComponentID string `json:"componentId"`
		Count       int    `json:"count"`
		Blocks      []struct {
			Snap     versionlog.LogEntry `json:"snap"`
			IsLatest bool                `json:"isLatest"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "ui/button", doc.ComponentID)
	assert.Equal(t, 3, doc.Count)
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "1.2.0", doc.Blocks[0].Snap.Tag)
	assert.True(t, doc.Blocks[0].IsLatest)
}

func TestCompareCommand_Errors(t *testing.T) {
	tests := map[string]struct {
		args        []string
		wantExit    int
		wantStderr  []string
		withLogFile bool
	}{
		"unknown version lists available": {
			args:        []string{"compare", "1.0.0", "9.9.9"},
			withLogFile: true,
			wantExit:    3,
			wantStderr: []string{
				"version not found: 9.9.9",
				"Available versions: d4d4d4d4d, 1.2.0, 1.1.0, 1.0.0",
			},
		},
		"unknown current version": {
			args:        []string{"compare", "1.0.0", "1.1.0", "--current", "0.1.0"},
			withLogFile: true,
			wantExit:    3,
			wantStderr:  []string{"version not found: 0.1.0"},
		},
		"one version": {
			args:        []string{"compare", "1.0.0"},
			withLogFile: true,
			wantExit:    3,
			wantStderr:  []string{"both a base and a compare version are required", "snaplog compare <base> <compare>"},
		},
		"invalid output": {
			args:        []string{"compare", "1.0.0", "1.1.0", "-o", "html"},
			withLogFile: true,
			wantExit:    3,
			wantStderr:  []string{"invalid output format: html"},
		},
		"missing log file": {
			args:       []string{"compare", "1.0.0", "1.1.0", "--file", "nope.yml"},
			wantExit:   4,
			wantStderr: []string{"log file not found: nope.yml"},
		},
		"not a repository": {
			args:       []string{"compare", "1.0.0", "1.1.0"},
			wantExit:   4,
			wantStderr: []string{"not a git repository"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			args := tt.args
			if tt.withLogFile {
				args = append(args, "--file", writeLog(t, dir, buttonLog))
			}

			out, stderr, err := executeRoot(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, ExitCode(err))
			assert.Empty(t, out)
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr, want)
			}
		})
	}
}

func TestCompareCommand_GitSource(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "button")
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for i, tag := range []string{"v0.1.0", "v0.2.0", "v0.3.0"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte(tag), 0o644))
		_, err = wt.Add("README")
		require.NoError(t, err)
		hash, err := wt.Commit("release "+tag, &gogit.CommitOptions{Author: &object.Signature{
			Name: "dev", Email: "dev@example.com", When: time.Unix(1600000000+int64(i)*60, 0),
		}})
		require.NoError(t, err)
		_, err = repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}

	out, stderr, err := executeRoot(t, "compare", "0.1.0", "v0.2.0", "--repo", dir, "--plain")
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "* v0.2.0")
	assert.Contains(t, out, "  dev <dev@example.com>\n  release v0.2.0\n")
	assert.Contains(t, out, "button: 2 versions between 0.1.0 and v0.2.0")
	assert.NotContains(t, out, "[latest]", "v0.3.0 is outside the range")
}

func TestCompareReport(t *testing.T) {
	logs := versionlog.LogList{
		{Hash: "cccc1111", Tag: "3.0.0"},
		{Hash: "bbbb1111", Tag: "2.0.0"},
		{Hash: "aaaa1111", Tag: "1.0.0"},
	}

	tests := map[string]struct {
		base, compare string
		want          []string
	}{
		"full range": {base: "1.0.0", compare: "3.0.0", want: []string{"cccc1111", "bbbb1111", "aaaa1111"}},
		"swapped":    {base: "3.0.0", compare: "1.0.0", want: []string{"cccc1111", "bbbb1111", "aaaa1111"}},
		"single":     {base: "2.0.0", compare: "v2.0.0", want: []string{"bbbb1111"}},
		"upper two":  {base: "bbbb", compare: "cccc", want: []string{"cccc1111", "bbbb1111"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			report, err := compareReport("lib", logs, tt.base, tt.compare, "", "")
			require.NoError(t, err)

			got := make([]string, len(report.Blocks))
			for i, b := range report.Blocks {
				got[i] = b.Entry.Hash
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("blocks mismatch (-want +got):\n%s", diff)
			}
			for _, b := range report.Blocks {
				assert.Equal(t, b.Entry.Tag == "3.0.0", b.IsLatest, b.Entry.Tag)
				assert.False(t, b.IsCurrent)
			}
		})
	}
}

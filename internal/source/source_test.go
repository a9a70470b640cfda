package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariel-frischer/snaplog/internal/config"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/progress"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const buttonLog = `component: ui/button
logs:
  - hash: c3c3c3c3c3c3
    tag: 1.2.0
    date: "1600000003000"
    message: fix padding
  - hash: a1a1a1a1a1a1
    tag: 1.0.0
    date: "1600000001000"
`

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := map[string]struct {
		content     string
		componentID string
		wantID      string
	}{
		"document component": {content: buttonLog, wantID: "ui/button"},
		"configured id wins": {content: buttonLog, componentID: "button", wantID: "button"},
		"falls back to file name": {
			content: "logs:\n  - hash: abc\n",
			wantID:  "history",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeLog(t, "history.yml", tt.content)
			cfg := &config.Configuration{Source: config.SourceFile, LogFile: path, ComponentID: tt.componentID}

			h, err := NewLoader(cfg, WithLogger(zaptest.NewLogger(t))).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, h.ComponentID)
			assert.Equal(t, path, h.LogFile)
			assert.Empty(t, h.GitDir)
			assert.NotEmpty(t, h.Logs)
		})
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeLog(t, "button.json", `{"component": "ui/button", "logs": [{"hash": "abc", "tag": "v1"}]}`)
	cfg := &config.Configuration{Source: config.SourceFile, LogFile: path}

	h, err := NewLoader(cfg).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, h.Logs.Hashes())
}

func TestLoadFileErrors(t *testing.T) {
	tests := map[string]struct {
		logFile  func(t *testing.T) string
		wantMsg  string
		wantExit int
	}{
		"not configured": {
			logFile:  func(t *testing.T) string { return "" },
			wantMsg:  "no log file is configured",
			wantExit: clierrors.ExitFailure,
		},
		"missing": {
			logFile:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.yml") },
			wantMsg:  "log file not found",
			wantExit: clierrors.ExitMissingDependencies,
		},
		"duplicate hash": {
			logFile: func(t *testing.T) string {
				return writeLog(t, "dup.yml", "logs:\n  - hash: abc\n  - hash: abc\n")
			},
			wantMsg:  "duplicate hash",
			wantExit: clierrors.ExitFailure,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Configuration{Source: config.SourceFile, LogFile: tt.logFile(t)}

			_, err := NewLoader(cfg).Load(context.Background())
			require.Error(t, err)
			cliErr := clierrors.AsCLIError(err)
			require.NotNil(t, cliErr)
			assert.Contains(t, cliErr.Error(), tt.wantMsg)
			assert.Equal(t, tt.wantExit, cliErr.ExitCode())
		})
	}
}

func TestLoadGit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "button")
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("button"), 0o644))
	_, err = wt.Add("README")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &gogit.CommitOptions{Author: &object.Signature{
		Name: "dev", Email: "dev@example.com", When: time.Unix(1600000000, 0),
	}})
	require.NoError(t, err)
	_, err = repo.CreateTag("v0.1.0", hash, nil)
	require.NoError(t, err)

	var spin bytes.Buffer
	cfg := &config.Configuration{Source: config.SourceGit, RepoPath: dir}
	h, err := NewLoader(cfg, WithSpinner(progress.NewSpinner(&spin, progress.TerminalCapabilities{}))).
		Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "button", h.ComponentID)
	require.Len(t, h.Logs, 1)
	assert.Equal(t, "v0.1.0", h.Logs[0].Tag)
	assert.Equal(t, filepath.Join(dir, ".git"), h.GitDir)
	assert.Empty(t, h.LogFile)
	assert.Empty(t, spin.String())
}

func TestLoadGitNotRepository(t *testing.T) {
	cfg := &config.Configuration{Source: config.SourceGit, RepoPath: t.TempDir()}

	_, err := NewLoader(cfg).Load(context.Background())
	require.Error(t, err)
	cliErr := clierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.ExitMissingDependencies, cliErr.ExitCode())
	assert.Contains(t, cliErr.Error(), "not a git repository")
}

func TestLoadUnknownSource(t *testing.T) {
	_, err := NewLoader(&config.Configuration{Source: "svn"}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "svn"`)
}

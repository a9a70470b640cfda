package versionlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		input         string
		wantErr       bool
		wantField     string
		wantComponent string
		wantLen       int
	}{
		"valid yaml": {
			input: `component: teambit.design/ui/button
logs:
  - hash: c3c3
    tag: 1.2.0
    date: "1600000003000"
    message: third
    username: ada
  - hash: b2b2
    date: "1600000002000"
`,
			wantComponent: "teambit.design/ui/button",
			wantLen:       2,
		},
		"valid json": {
			input:         `{"component": "ui/card", "logs": [{"hash": "aa11", "tag": "0.0.1", "date": "1000"}]}`,
			wantComponent: "ui/card",
			wantLen:       1,
		},
		"empty document": {
			input:   "",
			wantLen: 0,
		},
		"no logs key": {
			input:         "component: ui/empty\n",
			wantComponent: "ui/empty",
			wantLen:       0,
		},
		"missing hash": {
			input:     "logs:\n  - tag: 1.0.0\n",
			wantErr:   true,
			wantField: "logs[0].hash",
		},
		"duplicate hash": {
			input:     "logs:\n  - hash: aa\n  - hash: bb\n  - hash: aa\n",
			wantErr:   true,
			wantField: "logs[2].hash",
		},
		"non numeric date": {
			input:     "logs:\n  - hash: aa\n    date: 2024-01-01\n",
			wantErr:   true,
			wantField: "logs[0].date",
		},
		"malformed yaml": {
			input:   "logs: [hash: aa\n",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantField != "" {
					require.True(t, IsValidationError(err), "expected ValidationError, got %v", err)
					assert.Contains(t, err.Error(), tt.wantField)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantComponent, doc.Component)
			assert.NotNil(t, doc.Logs)
			assert.Len(t, doc.Logs, tt.wantLen)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs.yaml")
	content := `component: ui/button
logs:
  - hash: c3c3
    tag: 1.2.0
    date: "1600000003000"
  - hash: a1a1
    tag: 1.0.0
    date: "1600000001000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ui/button", doc.Component)
	assert.Equal(t, []string{"c3c3", "a1a1"}, doc.Logs.Hashes())
	assert.Equal(t, []string{"1.2.0", "1.0.0"}, doc.Logs.Labels())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening log file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeIsReadBack(t *testing.T) {
	doc := &Document{
		Component: "ui/button",
		Logs: LogList{
			{Hash: "c3c3c3c3", Tag: "1.2.0", Date: "1600000003000", Message: "fix: padding"},
			{Hash: "a1a1a1a1", Date: "1600000001000", Username: "dev"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.Contains(t, buf.String(), "component: ui/button\n")
	assert.Contains(t, buf.String(), `date: "1600000003000"`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

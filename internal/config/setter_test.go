package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseKeyPath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path    string
		want    []string
		wantErr error
	}{
		"single key":        {path: "max_width", want: []string{"max_width"}},
		"nested key":        {path: "watch.debounce", want: []string{"watch", "debounce"}},
		"deeply nested key": {path: "a.b.c.d", want: []string{"a", "b", "c", "d"}},
		"empty string":      {path: "", wantErr: ErrEmptyKeyPath},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKeyPath(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetNestedValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initialYAML  string
		keyPath      []string
		value        interface{}
		expectedYAML string
	}{
		"top-level string on empty doc": {
			keyPath:      []string{"output"},
			value:        "markdown",
			expectedYAML: "output: markdown\n",
		},
		"top-level int": {
			keyPath:      []string{"max_width"},
			value:        80,
			expectedYAML: "max_width: 80\n",
		},
		"top-level bool": {
			keyPath:      []string{"plain"},
			value:        true,
			expectedYAML: "plain: true\n",
		},
		"creates nested mapping": {
			keyPath:      []string{"watch", "debounce"},
			value:        "1s",
			expectedYAML: "watch:\n    debounce: 1s\n",
		},
		"replaces existing value": {
			initialYAML:  "output: text\n",
			keyPath:      []string{"output"},
			value:        "json",
			expectedYAML: "output: json\n",
		},
		"appends after existing keys": {
			initialYAML:  "source: git\n",
			keyPath:      []string{"ref"},
			value:        "main",
			expectedYAML: "source: git\nref: main\n",
		},
		"adds to existing nested mapping": {
			initialYAML:  "watch:\n    debounce: 1s\n",
			keyPath:      []string{"watch", "poll"},
			value:        false,
			expectedYAML: "watch:\n    debounce: 1s\n    poll: false\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var root yaml.Node
			if tt.initialYAML != "" {
				require.NoError(t, yaml.Unmarshal([]byte(tt.initialYAML), &root))
			}

			require.NoError(t, SetNestedValue(&root, tt.keyPath, tt.value))

			out, err := yaml.Marshal(&root)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedYAML, string(out))
		})
	}
}

func TestSetNestedValueThroughScalar(t *testing.T) {
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("watch: fast\n"), &root))

	err := SetNestedValue(&root, []string{"watch", "debounce"}, "1s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"watch" is not a mapping`)
}

func TestGetNestedValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		yaml    string
		keyPath []string
		want    string
		wantNil bool
	}{
		"top-level":          {yaml: "output: json\n", keyPath: []string{"output"}, want: "json"},
		"nested":             {yaml: "watch:\n  debounce: 2s\n", keyPath: []string{"watch", "debounce"}, want: "2s"},
		"missing key":        {yaml: "output: json\n", keyPath: []string{"missing"}, wantNil: true},
		"missing nested key": {yaml: "watch:\n  debounce: 2s\n", keyPath: []string{"watch", "missing"}, wantNil: true},
		"through a scalar":   {yaml: "output: json\n", keyPath: []string{"output", "x"}, wantNil: true},
		"empty path":         {yaml: "output: json\n", keyPath: []string{}, wantNil: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var root yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &root))

			got := GetNestedValue(&root, tt.keyPath)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		initialContent string
		key            string
		value          string
		wantContains   []string
		wantErr        string
	}{
		"set new value": {
			key:          "max_width",
			value:        "100",
			wantContains: []string{"max_width: 100"},
		},
		"set nested duration": {
			key:          "watch.debounce",
			value:        "1500ms",
			wantContains: []string{"watch:", "debounce: 1.5s"},
		},
		"update existing value": {
			initialContent: "output: text\n",
			key:            "output",
			value:          "markdown",
			wantContains:   []string{"output: markdown"},
		},
		"unknown key": {
			key:     "unknown.key",
			value:   "value",
			wantErr: "unknown configuration key",
		},
		"invalid integer": {
			key:     "max_width",
			value:   "wide",
			wantErr: "invalid integer",
		},
		"invalid enum": {
			key:     "source",
			value:   "svn",
			wantErr: "valid options: git, file",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			configPath := filepath.Join(t.TempDir(), "config.yml")
			if tt.initialContent != "" {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.initialContent), 0o644))
			}

			err := SetConfigValue(configPath, tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			content, err := os.ReadFile(configPath)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(content), want)
			}
		})
	}
}

func TestGetConfigValue(t *testing.T) {
	tests := map[string]struct {
		content string
		key     string
		want    string
		wantOK  bool
	}{
		"top level":         {content: "output: json\n", key: "output", want: "json", wantOK: true},
		"nested":            {content: "watch:\n  debounce: 1s\n", key: "watch.debounce", want: "1s", wantOK: true},
		"missing key":       {content: "output: json\n", key: "plain"},
		"mapping not value": {content: "watch:\n  debounce: 1s\n", key: "watch"},
		"empty file":        {content: "", key: "output"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, ok, err := GetConfigValue(path, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfigValueMissingFile(t *testing.T) {
	got, ok, err := GetConfigValue(filepath.Join(t.TempDir(), "none.yml"), "output")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestSetConfigValueCreatesFile(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "subdir", "config.yml")
	require.NoError(t, SetConfigValue(configPath, "plain", "true"))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "plain: true\n", string(content))
}

func TestSetConfigValuePreservesComments(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yml")
	initial := "# snaplog settings\noutput: text\n# wrap width\nmax_width: 72\n"
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	require.NoError(t, SetConfigValue(configPath, "max_width", "96"))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "max_width: 96")
	assert.Contains(t, string(content), "# wrap width")
	assert.Contains(t, string(content), "output: text")
}

func TestSetConfigValueRoundTripsThroughLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, SetConfigValue(configPath, "output", "yaml"))
	require.NoError(t, SetConfigValue(configPath, "watch.debounce", "2s"))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "2s", cfg.Watch.Debounce.String())
}

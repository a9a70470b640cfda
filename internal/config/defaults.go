package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# snaplog configuration
# See 'snaplog config -h' for commands, 'snaplog config keys' for all options

# Log source
source: git                           # Where history comes from: git | file
repo_path: ""                         # Repository path for the git source (empty = current directory)
ref: ""                               # Revision whose history is read (empty = HEAD)
log_file: ""                          # YAML/JSON log document for the file source
component_id: ""                      # Component name shown in output (default: repository or document name)

# Output
output: text                          # text | markdown | json | yaml
plain: false                          # Disable colors and badges icons
max_width: 0                          # Wrap width for messages (0 = terminal width)

# Logging
debug: false                          # Verbose debug logging to stderr

# Watch mode
watch:
  debounce: 300ms                     # Collapse bursts of file events into one reload
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"source":       SourceGit,
		"repo_path":    "",
		"ref":          "",
		"log_file":     "",
		"component_id": "",
		"output":       "text",
		"plain":        false,
		// max_width: 0 means detect the terminal width at render time.
		"max_width": 0,
		"debug":     false,
		"watch": map[string]interface{}{
			"debounce": (300 * time.Millisecond).String(),
		},
	}
}

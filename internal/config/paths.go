package config

import (
	"os"
	"path/filepath"
)

// appName is the directory name used under the user config directory.
const appName = "snaplog"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/snaplog/config.yml
// - macOS: ~/Library/Application Support/snaplog/config.yml
// - Windows: %APPDATA%\snaplog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .snaplog/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".snaplog"
}

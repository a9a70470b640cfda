// Package config provides CLI configuration commands including init.
// path.go resolves where init writes a project config, so a project can be
// initialized from outside its directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/snaplog/internal/config"
)

// ResolvePath converts a raw path argument to an absolute path.
// It handles the following cases:
//   - Empty string or ".": returns current working directory
//   - "~" or "~/...": expands tilde to user home directory
//   - Relative path: resolves against current working directory
//   - Absolute path: returns unchanged
func ResolvePath(rawPath string) (string, error) {
	if rawPath == "" || rawPath == "." {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return cwd, nil
	}

	if strings.HasPrefix(rawPath, "~") {
		expanded, err := expandTilde(rawPath)
		if err != nil {
			return "", fmt.Errorf("expanding tilde in path: %w", err)
		}
		rawPath = expanded
	}

	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return absPath, nil
}

// expandTilde expands a leading "~" or "~/" to the user's home directory.
// "~user" forms are returned unchanged.
func expandTilde(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// EnsureDirectory ensures the target path exists as a directory, creating it
// and any parents with 0755 permissions if needed.
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists and is not a directory: %s", path)
		}
		return nil
	}

	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("checking path %s: %w", path, err)
}

// projectConfigIn returns the project config path inside dir.
// An empty dir means the current directory.
func projectConfigIn(dir string) (string, error) {
	if dir == "" || dir == "." {
		return config.ProjectConfigPath(), nil
	}
	resolved, err := ResolvePath(dir)
	if err != nil {
		return "", err
	}
	if err := EnsureDirectory(resolved); err != nil {
		return "", err
	}
	return filepath.Join(resolved, config.ProjectConfigPath()), nil
}

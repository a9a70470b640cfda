// snaplog - changelog between two versions of a component
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/snaplog

// Package config provides hierarchical configuration management for snaplog using koanf.
// Configuration is loaded with priority: flag overrides > environment variables > explicit config file (--config)
// > project config (.snaplog/config.yml) > user config (~/.config/snaplog/config.yml) > defaults.
// Explicit config files may be YAML or JSON, selected by extension.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix of environment variables read as configuration.
const envPrefix = "SNAPLOG_"

// Log sources.
const (
	SourceGit  = "git"
	SourceFile = "file"
)

// Configuration represents the snaplog CLI tool configuration
type Configuration struct {
	// Source selects where the version log comes from: "git" or "file".
	Source string `koanf:"source" validate:"oneof=git file"`
	// RepoPath is the repository to read history from (git source).
	// Empty means the current directory.
	RepoPath string `koanf:"repo_path"`
	// LogFile is the YAML or JSON log document (file source).
	LogFile string `koanf:"log_file"`
	// Ref is the revision whose history is read (git source). Empty means HEAD.
	Ref string `koanf:"ref"`
	// ComponentID names the component in rendered output.
	ComponentID string `koanf:"component_id"`

	Output   string `koanf:"output" validate:"oneof=text markdown json yaml"`
	Plain    bool   `koanf:"plain"`
	MaxWidth int    `koanf:"max_width" validate:"min=0,max=1000"`
	Debug    bool   `koanf:"debug"`

	// Watch configures the live panel started by 'snaplog watch'.
	Watch WatchConfig `koanf:"watch"`

	k *koanf.Koanf
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce collapses bursts of file events into a single reload.
	Debounce time.Duration `koanf:"debounce" validate:"min=0"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .snaplog/config.yml)
	ProjectConfigPath string
	// ConfigFile is an explicit config file layered above project config.
	// Its extension picks the parser: .json uses JSON, anything else YAML.
	ConfigFile string
	// Overrides are applied last, above environment variables. The CLI passes
	// explicitly set flags here, keyed by config key.
	Overrides map[string]interface{}
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadExplicitConfig(k, opts.ConfigFile); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	for key, value := range opts.Overrides {
		k.Set(key, value)
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil || !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project-level YAML config if present.
// Supports custom path override (for testing).
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	projectPath := ProjectConfigPath()
	if customPath != "" {
		projectPath = customPath
	}
	if !fileExists(projectPath) {
		return nil
	}
	if err := loadYAMLConfig(k, projectPath, "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadExplicitConfig loads a config file named on the command line.
// Unlike user and project config, a missing explicit file is an error.
func loadExplicitConfig(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	if !fileExists(path) {
		return fmt.Errorf("config file not found: %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return nil
	}
	return loadYAMLConfig(k, path, "explicit")
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.RepoPath = expandHomePath(cfg.RepoPath)
	cfg.LogFile = expandHomePath(cfg.LogFile)
	cfg.k = k

	return &cfg, nil
}

// Effective renders the merged configuration as YAML.
func (c *Configuration) Effective() ([]byte, error) {
	if c.k == nil {
		return nil, fmt.Errorf("configuration was not loaded")
	}
	return c.k.Marshal(yaml.Parser())
}

// EffectiveJSON renders the merged configuration as JSON.
func (c *Configuration) EffectiveJSON() ([]byte, error) {
	if c.k == nil {
		return nil, fmt.Errorf("configuration was not loaded")
	}
	return c.k.Marshal(json.Parser())
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: SNAPLOG_MAX_WIDTH -> max_width, SNAPLOG_WATCH_DEBOUNCE -> watch.debounce
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "watch_"); ok {
		return "watch." + rest
	}
	return key
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

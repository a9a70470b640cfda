package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/config"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/git"
	"github.com/ariel-frischer/snaplog/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Color helper functions for init command output
var (
	cGreen = color.New(color.FgGreen).SprintFunc()
	cDim   = color.New(color.Faint).SprintFunc()
	cBold  = color.New(color.Bold).SprintFunc()
	cCyan  = color.New(color.FgCyan).SprintFunc()
)

// InitCmd writes a commented default configuration.
var InitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a snaplog configuration file",
	Long: `Create a commented snaplog configuration with every option at its default.

By default, creates the project config (.snaplog/config.yml) in the current
directory, or in [path] when given. Use --user to create the user-level config
that applies to every project instead.

If the config already exists, it is left unchanged (use --force to overwrite).

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (SNAPLOG_*)
  3. Explicit config file (--config)
  4. Project config (.snaplog/config.yml)
  5. User config (~/.config/snaplog/config.yml)
  6. Built-in defaults`,
	Example: `  # Create .snaplog/config.yml in the current directory
  snaplog init

  # Initialize another project
  snaplog init ~/src/design-system

  # Create the user-level config
  snaplog init --user

  # Overwrite an existing config with defaults
  snaplog init --force`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runInit,
}

func init() {
	InitCmd.GroupID = shared.GroupConfiguration
	InitCmd.Flags().BoolP("user", "u", false, "Create user-level config (~/.config/snaplog/config.yml)")
	InitCmd.Flags().BoolP("force", "f", false, "Overwrite existing config with defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")

	if user && len(args) > 0 {
		return clierrors.InvalidFlagCombination("--user and [path]", "the user config does not belong to a project")
	}

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	configPath, err := getConfigPath(user, dir)
	if err != nil {
		return fmt.Errorf("getting config path: %w", err)
	}

	written, err := initializeConfig(cmd.OutOrStdout(), configPath, force)
	if err != nil {
		return err
	}
	if written && !user {
		warnIfNoRepository(cmd.OutOrStdout(), filepath.Dir(filepath.Dir(configPath)))
	}
	return nil
}

// initializeConfig writes the default template to configPath unless a config
// already exists there. It reports whether a file was written.
func initializeConfig(out io.Writer, configPath string, force bool) (bool, error) {
	configExists := fileExists(configPath)

	if configExists && !force {
		output.PrintSuccess(out, fmt.Sprintf("Config: exists at %s (use --force to overwrite)", configPath))
		return false, nil
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return false, err
	}

	action := "created"
	if configExists {
		action = "overwritten"
	}
	output.PrintSuccess(out, fmt.Sprintf("Config: %s at %s", action, configPath))
	fmt.Fprintf(out, "\nNext: %s\n", cCyan("snaplog config show"))
	return true, nil
}

// warnIfNoRepository points at the file source when a project config is
// created outside any git repository, where the default source cannot work.
func warnIfNoRepository(out io.Writer, projectDir string) {
	if git.IsGitRepository(projectDir) {
		return
	}
	if abs, err := filepath.Abs(projectDir); err == nil {
		projectDir = abs
	}
	output.PrintWarning(out, fmt.Sprintf(
		"%s is not in a git repository; read a log document with: snaplog config set --project source file",
		projectDir))
}

// getConfigPath returns the user config path, or the project config path in dir.
func getConfigPath(user bool, dir string) (string, error) {
	if user {
		configPath, err := config.UserConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get user config path: %w", err)
		}
		return configPath, nil
	}
	return projectConfigIn(dir)
}

// writeDefaultConfig writes the default configuration to the given path
func writeDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return clierrors.FileNotWritable(filepath.Dir(configPath))
	}

	template := config.GetDefaultConfigTemplate()
	if err := os.WriteFile(configPath, []byte(template), 0o644); err != nil {
		return clierrors.FileNotWritable(configPath)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

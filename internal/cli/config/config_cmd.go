package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/config"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/output"
	"github.com/spf13/cobra"
)

// ConfigCmd groups the configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage snaplog configuration",
	Long: `Manage snaplog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (SNAPLOG_*, e.g. SNAPLOG_WATCH_DEBOUNCE)
  3. Explicit config file (--config, YAML or JSON)
  4. Project config (.snaplog/config.yml)
  5. User config (~/.config/snaplog/config.yml)
  6. Built-in defaults`,
	Example: `  # Show the effective configuration
  snaplog config show

  # Read history from a log document in this project
  snaplog config set source file --project
  snaplog config set log_file history.yml --project

  # List every key
  snaplog config keys`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after all sources are merged, preceded by the
files it was read from.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user config, or the project config with
--project. The value is checked against the key's type before it is written;
comments and other keys in the file are kept.`,
	Example: `  snaplog config set output markdown
  snaplog config set watch.debounce 500ms --project`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:          "keys",
	Short:        "List configuration keys",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		printKeys(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	ConfigCmd.GroupID = shared.GroupConfiguration
	ConfigCmd.AddCommand(configShowCmd, configSetCmd, configKeysCmd)

	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configSetCmd.Flags().BoolP("project", "p", false, "Write to the project config (.snaplog/config.yml)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if asJSON {
		data, err = cfg.EffectiveJSON()
	} else {
		printSources(cmd, out)
		data, err = cfg.Effective()
	}
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}

	fmt.Fprintln(out, strings.TrimRight(string(data), "\n"))
	return nil
}

// printSources lists the config files in load order and whether each exists.
func printSources(cmd *cobra.Command, out io.Writer) {
	fmt.Fprintln(out, cBold("Configuration Sources"))
	if userPath, err := config.UserConfigPath(); err == nil {
		printSource(out, "user", userPath)
	}
	printSource(out, "project", config.ProjectConfigPath())
	if explicit, _ := cmd.Flags().GetString(shared.FlagConfig); explicit != "" {
		printSource(out, "explicit", explicit)
	}
	fmt.Fprintln(out)
}

func printSource(out io.Writer, label, path string) {
	status := cDim("(not found)")
	if fileExists(path) {
		status = cGreen("(loaded)")
	}
	fmt.Fprintf(out, "  %-9s %s %s\n", label+":", path, status)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	project, _ := cmd.Flags().GetBool("project")

	configPath, scope, err := setTarget(project)
	if err != nil {
		return err
	}

	previous, hadPrevious, err := config.GetConfigValue(configPath, key)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Configuration,
			fmt.Sprintf("cannot read %s", configPath),
			"Check the file for YAML syntax errors",
		)
	}

	if err := config.SetConfigValue(configPath, key, value); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Argument,
			fmt.Sprintf("cannot set %s", key),
			"List valid keys with: snaplog config keys",
		)
	}

	message := fmt.Sprintf("Set %s = %s in %s config (%s)", key, value, scope, configPath)
	if hadPrevious && previous != value {
		message += fmt.Sprintf(", was %s", previous)
	}
	output.PrintSuccess(cmd.OutOrStdout(), message)
	return nil
}

func setTarget(project bool) (path, scope string, err error) {
	if project {
		return config.ProjectConfigPath(), "project", nil
	}
	path, err = config.UserConfigPath()
	if err != nil {
		return "", "", fmt.Errorf("failed to get user config path: %w", err)
	}
	return path, "user", nil
}

func printKeys(out io.Writer) {
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		typ := schema.Type.String()
		if len(schema.AllowedValues) > 0 {
			typ = strings.Join(schema.AllowedValues, "|")
		}
		def := fmt.Sprint(schema.Default)
		if def == "" {
			def = `""`
		}
		fmt.Fprintf(out, "%-16s %-14s %s (default: %s)\n", key, typ, schema.Description, def)
	}
}

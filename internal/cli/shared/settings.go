package shared

import (
	"fmt"
	"os"
	"strings"

	"github.com/ariel-frischer/snaplog/internal/changelog"
	"github.com/ariel-frischer/snaplog/internal/config"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Flag names shared by several commands.
const (
	FlagConfig    = "config"
	FlagSource    = "source"
	FlagRepo      = "repo"
	FlagFile      = "file"
	FlagRef       = "ref"
	FlagComponent = "component"
	FlagDebug     = "debug"
	FlagOutput    = "output"
	FlagPlain     = "plain"
	FlagMaxWidth  = "max-width"
	FlagDebounce  = "debounce"
)

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	FlagSource:    "source",
	FlagRepo:      "repo_path",
	FlagFile:      "log_file",
	FlagRef:       "ref",
	FlagComponent: "component_id",
	FlagDebug:     "debug",
	FlagOutput:    "output",
	FlagPlain:     "plain",
	FlagMaxWidth:  "max_width",
	FlagDebounce:  "watch.debounce",
}

// AddOutputFlags adds --output, --plain and --max-width to cmd.
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(FlagOutput, "o", "", fmt.Sprintf("Output format (%s)", strings.Join(changelog.ValidFormats(), ", ")))
	AddTextFlags(cmd)
}

// AddTextFlags adds the flags that shape terminal text: --plain and --max-width.
func AddTextFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(FlagPlain, false, "Plain text output (no colors/icons)")
	cmd.Flags().Int(FlagMaxWidth, 0, "Wrap messages at this width (0 = terminal width)")
}

// Overrides collects the flags the user set explicitly, keyed by config key.
// Passing --file alone selects the file source.
func Overrides(flags *pflag.FlagSet) (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		var (
			value interface{}
			err   error
		)
		switch f.Value.Type() {
		case "bool":
			value, err = flags.GetBool(name)
		case "int":
			value, err = flags.GetInt(name)
		default:
			value = f.Value.String()
		}
		if err != nil {
			return nil, fmt.Errorf("reading --%s: %w", name, err)
		}
		overrides[key] = value
	}

	if _, ok := overrides["log_file"]; ok {
		if _, set := overrides["source"]; !set {
			overrides["source"] = config.SourceFile
		}
	}
	return overrides, nil
}

// LoadConfig loads configuration for cmd, layering its explicitly set flags
// on top of files and environment.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	overrides, err := Overrides(cmd.Flags())
	if err != nil {
		return nil, err
	}

	if output, ok := overrides["output"].(string); ok && !changelog.IsValidFormat(output) {
		return nil, clierrors.InvalidOutputFormat(output, changelog.ValidFormats())
	}

	// Missing only when the command is run outside the root command.
	configFile, _ := cmd.Flags().GetString(FlagConfig)
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, clierrors.ConfigFileNotFound(configFile)
		}
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigFile: configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	return cfg, nil
}

// NewLogger builds the diagnostic logger for cfg.
func NewLogger(cfg *config.Configuration) (*zap.Logger, error) {
	return logging.New(cfg.Debug)
}

// FormatOptions returns terminal rendering options for cfg.
func FormatOptions(cfg *config.Configuration) changelog.FormatOptions {
	return changelog.FormatOptions{
		Plain:    cfg.Plain,
		MaxWidth: cfg.MaxWidth,
	}
}

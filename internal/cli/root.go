// Package cli implements the snaplog command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/snaplog/internal/build"
	clicfg "github.com/ariel-frischer/snaplog/internal/cli/config"
	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/cli/util"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command groups, re-exported for tests and help output.
const (
	GroupChangelog     = shared.GroupChangelog
	GroupConfiguration = shared.GroupConfiguration
	GroupInternal      = shared.GroupInternal
)

var rootCmd = &cobra.Command{
	Use:   "snaplog",
	Short: "Show the changelog between two versions of a component",
	Long: `snaplog lists the versions between a base and a compare version of a
component, newest first, flagging the current and the latest release.

History is read from a git repository (tags and commits) or from a YAML/JSON
log document. Output is colored text, markdown, JSON or YAML.`,
	Example: `  # What changed between two releases of this repository
  snaplog compare v1.0.0 v1.2.0

  # Same range from a log document, as markdown
  snaplog compare 1.0.0 1.2.0 --file history.yml -o markdown

  # Every version, newest first
  snaplog log

  # Live panel that redraws when new commits or tags land
  snaplog watch v1.0.0 v2.0.0`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupInternal, Title: "Other:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupInternal)
	rootCmd.SetCompletionCommandGroupID(GroupInternal)

	rootCmd.Version = build.Current().Short()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringP(shared.FlagConfig, "c", "", "Config file (YAML or JSON) layered over user and project config")
	pf.String(shared.FlagSource, "", "Where history is read from: git or file (default git)")
	pf.String(shared.FlagRepo, "", "Repository to read history from (default: current directory)")
	pf.String(shared.FlagFile, "", "Log document to read history from (implies --source file)")
	pf.String(shared.FlagRef, "", "Revision whose history is read (default HEAD)")
	pf.String(shared.FlagComponent, "", "Component name shown in output")
	pf.Bool(shared.FlagDebug, false, "Enable debug logging to stderr")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			fmt.Sprintf("See: %s --help", cmd.CommandPath()))
	})

	rootCmd.AddCommand(clicfg.ConfigCmd, clicfg.InitCmd, util.VersionCmd)
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM. Errors are printed before they are returned.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

// printError prints err unless the command already reported it.
func printError(w io.Writer, err error) {
	if shared.IsSilent(err) {
		return
	}
	if !clierrors.IsCLIError(err) {
		fmt.Fprint(w, clierrors.FormatSimpleError(err, clierrors.Runtime))
		return
	}
	clierrors.FprintError(w, clierrors.AsCLIError(err), !color.NoColor)
}

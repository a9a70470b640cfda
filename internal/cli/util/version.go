// Package util provides small informational commands.
package util

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/snaplog/internal/build"
	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	versionPlain bool
	versionJSON  bool
)

// VersionCmd prints build information.
var VersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for snaplog",
	Example: `  # Show version info
  snaplog version

  # Plain output (for scripts)
  snaplog version --plain

  # Machine-readable output
  snaplog version --json`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := build.Current()
		out := cmd.OutOrStdout()
		switch {
		case versionJSON:
			return printJSONVersion(out, info)
		case versionPlain:
			printPlainVersion(out, info)
		default:
			printPrettyVersion(out, info)
		}
		return nil
	},
}

func init() {
	VersionCmd.GroupID = shared.GroupInternal
	VersionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	VersionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
	VersionCmd.MarkFlagsMutuallyExclusive("plain", "json")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer, info build.Info) {
	fmt.Fprintf(out, "snaplog %s\n", info.Version)
	fmt.Fprintf(out, "commit: %s\n", info.Commit)
	fmt.Fprintf(out, "built: %s\n", info.BuildDate)
	fmt.Fprintf(out, "go: %s\n", info.GoVersion)
	fmt.Fprintf(out, "platform: %s\n", info.Platform)
}

func printJSONVersion(out io.Writer, info build.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("encoding version info: %w", err)
	}
	return nil
}

// printPrettyVersion prints the version inside a box sized to the terminal.
func printPrettyVersion(out io.Writer, info build.Info) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	rows := []struct {
		label string
		value string
	}{
		{"Version", info.Version},
		{"Commit", truncateCommit(info.Commit)},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	}

	boxWidth := 44
	if termWidth := output.GetTerminalWidth(); termWidth < 50 {
		boxWidth = termWidth - 6
	}
	inner := boxWidth - 2

	fmt.Fprintln(out)
	fmt.Fprintln(out, cyan("  snaplog"))
	fmt.Fprintln(out, "┌"+strings.Repeat("─", inner)+"┐")
	for _, row := range rows {
		// Pad on the raw text so color codes do not skew the box.
		text := fmt.Sprintf(" %10s   %s", row.label, row.value)
		pad := max(inner-len([]rune(text)), 0)
		line := fmt.Sprintf(" %s   %s", yellow(fmt.Sprintf("%10s", row.label)), white(row.value))
		fmt.Fprintln(out, "│"+line+strings.Repeat(" ", pad)+"│")
	}
	fmt.Fprintln(out, "└"+strings.Repeat("─", inner)+"┘")
	fmt.Fprintln(out)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

package cli

import (
	"fmt"

	"github.com/ariel-frischer/snaplog/internal/changelog"
	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/compare"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/versionlog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareCurrentFlag string
	compareLatestFlag  string
)

var compareCmd = &cobra.Command{
	Use:     "compare <base> <compare>",
	Aliases: []string{"diff"},
	Short:   "Show the versions between two versions",
	Long: `Show every version between a base and a compare version, both included,
newest first.

Versions are tags (a leading "v" is optional and case is ignored), full
commit hashes, or unique hash prefixes of at least 4 characters. The order
of the two versions does not matter.

The latest release (highest semantic version tag) is flagged unless --latest
names another version; --current flags the version the component is at.`,
	Example: `  snaplog compare v1.0.0 v1.2.0
  snaplog compare 1.2.0 1.0.0 --current 1.1.0
  snaplog compare 3f2a9c1 v1.2.0 --output json
  snaplog compare 1.0.0 2.0.0 --file history.yml --plain`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return clierrors.MissingVersions("compare")
		}
		return nil
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, args)
	},
}

func init() {
	compareCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareCurrentFlag, "current", "", "Version to flag as current")
	compareCmd.Flags().StringVar(&compareLatestFlag, "latest", "", "Version to flag as latest (default: highest release tag)")
	shared.AddOutputFlags(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	history, err := s.loader.Load(cmd.Context())
	if err != nil {
		return err
	}

	report, err := compareReport(history.ComponentID, history.Logs, args[0], args[1], compareCurrentFlag, compareLatestFlag)
	if err != nil {
		return err
	}
	tagged, untagged := report.Counts()
	s.logger.Debug("range extracted",
		zap.String("base", args[0]),
		zap.String("compare", args[1]),
		zap.Int("tagged", tagged),
		zap.Int("untagged", untagged))

	if err := changelog.Render(report, s.cfg.Output, cmd.OutOrStdout(), shared.FormatOptions(s.cfg)); err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}
	return nil
}

// compareReport extracts the base..compare range of logs. Endpoints are
// handed to the comparison by hash so they resolve to exactly the entries
// the user named.
func compareReport(componentID string, logs versionlog.LogList, base, compareVersion, current, latest string) (changelog.Report, error) {
	ep, err := resolveEndpoints(logs, base, compareVersion, current, latest)
	if err != nil {
		return changelog.Report{}, err
	}

	c := compare.NewComparison(logs, ep.base.Hash, ep.compare.Hash)
	return changelog.Report{
		ComponentID: componentID,
		Base:        base,
		Compare:     compareVersion,
		Blocks:      compare.Blocks(c, ep.component(componentID)),
	}, nil
}

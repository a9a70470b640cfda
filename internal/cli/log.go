package cli

import (
	"fmt"

	"github.com/ariel-frischer/snaplog/internal/changelog"
	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/compare"
	"github.com/ariel-frischer/snaplog/internal/versionlog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLastFlag     int
	logTagsOnlyFlag bool
	logCurrentFlag  string
	logExportFlag   bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List every version, newest first",
	Long: `List every version of the component, newest first.

Use the labels shown here (tags, or short hashes for untagged entries) as
arguments to 'snaplog compare' and 'snaplog watch'.

With --export the listing is written as a YAML log document instead, which
--file reads back. This snapshots a repository's history for machines
without the repository.`,
	Example: `  snaplog log
  snaplog log --tags-only --last 5
  snaplog log --output json
  snaplog log --export > history.yml`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLog(cmd, args)
	},
}

func init() {
	logCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntVarP(&logLastFlag, "last", "n", 0, "Show only the N newest versions (0 = all)")
	logCmd.Flags().BoolVar(&logTagsOnlyFlag, "tags-only", false, "List tagged versions only")
	logCmd.Flags().StringVar(&logCurrentFlag, "current", "", "Version to flag as current")
	logCmd.Flags().BoolVar(&logExportFlag, "export", false, "Write a log document readable by --file")
	logCmd.MarkFlagsMutuallyExclusive("export", shared.FlagOutput)
	shared.AddOutputFlags(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	history, err := s.loader.Load(cmd.Context())
	if err != nil {
		return err
	}

	if logExportFlag {
		doc := &versionlog.Document{
			Component: history.ComponentID,
			Logs:      filterLogs(history.Logs, logTagsOnlyFlag, logLastFlag),
		}
		return versionlog.Encode(cmd.OutOrStdout(), doc)
	}

	report, err := logReport(history.ComponentID, history.Logs, logCurrentFlag, logTagsOnlyFlag, logLastFlag)
	if err != nil {
		return err
	}
	tagged, untagged := report.Counts()
	s.logger.Debug("history listed",
		zap.Int("total", len(history.Logs)),
		zap.Int("tagged", tagged),
		zap.Int("untagged", untagged))

	if err := changelog.Render(report, s.cfg.Output, cmd.OutOrStdout(), shared.FormatOptions(s.cfg)); err != nil {
		return fmt.Errorf("rendering log: %w", err)
	}
	return nil
}

// logReport lists logs, optionally filtered to tagged entries and cut to the
// newest last entries. Current and latest are resolved against the full
// history before filtering.
func logReport(componentID string, logs versionlog.LogList, current string, tagsOnly bool, last int) (changelog.Report, error) {
	ep, err := resolveEndpoints(logs, "", "", current, "")
	if err != nil {
		return changelog.Report{}, err
	}

	return changelog.Report{
		ComponentID: componentID,
		Blocks:      compare.HistoryBlocks(filterLogs(logs, tagsOnly, last), ep.component(componentID)),
	}, nil
}

// filterLogs keeps tagged entries only when tagsOnly is set, then cuts the
// list to the newest last entries when last is positive.
func filterLogs(logs versionlog.LogList, tagsOnly bool, last int) versionlog.LogList {
	listed := logs
	if tagsOnly {
		listed = make(versionlog.LogList, 0, len(logs))
		for _, e := range logs {
			if e.Tag != "" {
				listed = append(listed, e)
			}
		}
	}
	if last > 0 && len(listed) > last {
		listed = listed[:last]
	}
	return listed
}

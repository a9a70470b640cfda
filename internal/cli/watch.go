package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ariel-frischer/snaplog/internal/changelog"
	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/compare"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/output"
	"github.com/ariel-frischer/snaplog/internal/source"
	"github.com/ariel-frischer/snaplog/internal/versionlog"
	"github.com/ariel-frischer/snaplog/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// linesPerBlock approximates the rows one rendered block takes: header,
// author, message and the blank separator.
const linesPerBlock = 4

// errQuit ends watch mode when the user presses q.
var errQuit = errors.New("quit")

var (
	watchCurrentFlag string
	watchLatestFlag  string
)

var watchCmd = &cobra.Command{
	Use:   "watch <base> <compare>",
	Short: "Keep the changelog open and redraw it as history changes",
	Long: `Show the changelog between two versions and keep it up to date.

The log file (file source) or the repository's refs (git source) are watched;
every change reloads the history and redraws the panel. When the range itself
changes, for example because a tag appeared, the view returns to the top.

A version that does not exist yet is not an error: the panel stays empty until
it appears, so 'snaplog watch v1.0.0 v2.0.0' waits for the v2.0.0 tag.

Keys (interactive terminals): j/k or arrows scroll, space/b page, g jumps
to the top, q quits.`,
	Example: `  snaplog watch v1.0.0 v1.2.0
  snaplog watch 1.0.0 2.0.0 --file history.yml --debounce 1s`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return clierrors.MissingVersions("watch")
		}
		return nil
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
}

func init() {
	watchCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchCurrentFlag, "current", "", "Version to flag as current")
	watchCmd.Flags().StringVar(&watchLatestFlag, "latest", "", "Version to flag as latest (default: highest release tag)")
	watchCmd.Flags().Duration(shared.FlagDebounce, 0, "Wait this long after the last change before reloading (default 300ms)")
	shared.AddTextFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	history, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}

	w, err := watch.New(s.cfg.Watch.Debounce, watch.WithLogger(s.logger.Named("watch")))
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	if history.LogFile != "" {
		err = w.AddFile(history.LogFile)
	} else {
		err = w.AddGitDir(history.GitDir)
	}
	if err != nil {
		_ = w.Close()
		return fmt.Errorf("watching history: %w", err)
	}
	s.logger.Debug("watching", zap.Strings("paths", w.Watched()))

	out := cmd.OutOrStdout()
	keys, restore, err := startKeys(cmd.InOrStdin())
	if err != nil {
		_ = w.Close()
		return err
	}
	defer restore()
	if keys != nil {
		// The terminal is raw now; newlines no longer return the carriage.
		out = output.CRLFWriter{W: out}
	}

	v := &watchView{
		out:    out,
		tty:    output.IsTerminal(cmd.OutOrStdout()),
		opts:   shared.FormatOptions(s.cfg),
		panel:  compare.NewPanel(),
		loader: source.NewLoader(s.cfg, source.WithLogger(s.logger.Named("source"))),
		logger: s.logger,
		args: watchArgs{
			base:    args[0],
			compare: args[1],
			current: watchCurrentFlag,
			latest:  watchLatestFlag,
		},
		height: max((output.GetTerminalHeight()-5)/linesPerBlock, 1),
		now:    time.Now,
	}
	v.hint = "Ctrl+C to quit"
	if keys != nil {
		v.hint = "j/k scroll · space/b page · g top · q quit"
	}
	v.refresh(history)

	reloads := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx, func(context.Context) error {
			select {
			case reloads <- struct{}{}:
			default:
				// A reload is already pending.
			}
			return nil
		})
	})
	g.Go(func() error {
		return v.loop(gctx, reloads, keys)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// startKeys puts an interactive stdin into raw mode and streams key presses
// from it. For anything else the returned channel is nil and restore does
// nothing.
func startKeys(in io.Reader) (<-chan output.Key, func(), error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, func() {}, nil
	}

	state, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, nil, fmt.Errorf("setting terminal raw mode: %w", err)
	}

	keys := make(chan output.Key, 8)
	// Reads on a terminal cannot be interrupted; this goroutine ends with
	// the process.
	go func() {
		_ = output.ReadKeys(f, keys)
	}()
	return keys, func() { _ = term.Restore(int(f.Fd()), state) }, nil
}

// watchArgs are the versions named on the command line.
type watchArgs struct {
	base    string
	compare string
	current string
	latest  string
}

// watchView draws the live panel. It is only touched from loop.
type watchView struct {
	out    io.Writer
	tty    bool
	opts   changelog.FormatOptions
	panel  *compare.Panel
	loader *source.Loader
	logger *zap.Logger
	args   watchArgs
	height int
	hint   string
	now    func() time.Time

	history *source.History
	status  string
	warning string
}

func (v *watchView) loop(ctx context.Context, reloads <-chan struct{}, keys <-chan output.Key) error {
	if err := v.draw(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloads:
			v.reload(ctx)
		case k := <-keys:
			if v.handleKey(k) {
				return errQuit
			}
		}
		if err := v.draw(); err != nil {
			return err
		}
	}
}

// reload re-reads the history. A failed reload keeps the last good panel
// and shows a warning until the next successful one.
func (v *watchView) reload(ctx context.Context) {
	h, err := v.loader.Load(ctx)
	if err != nil {
		v.logger.Warn("reload failed", zap.Error(err))
		v.warning = "reload failed: " + err.Error()
		return
	}
	v.refresh(h)
}

func (v *watchView) refresh(h *source.History) {
	v.history = h
	c, comp, missing := watchComparison(h, v.args)
	changed := v.panel.Refresh(c, comp)
	v.warning = ""

	if len(missing) > 0 {
		v.status = "waiting for " + strings.Join(missing, ", ")
	} else {
		v.status = "updated " + v.now().Format("15:04:05")
	}
	key := v.panel.Key()
	v.logger.Debug("panel refreshed",
		zap.String("base", key.Base),
		zap.String("compare", key.Compare),
		zap.Bool("range_changed", changed),
		zap.Int("versions", len(v.panel.Blocks())))
}

// handleKey applies a key press to the viewport and reports whether the
// user asked to quit.
func (v *watchView) handleKey(k output.Key) bool {
	switch k {
	case output.KeyDown:
		v.panel.Scroll(1)
	case output.KeyUp:
		v.panel.Scroll(-1)
	case output.KeyPageDown:
		v.panel.Scroll(v.height)
	case output.KeyPageUp:
		v.panel.Scroll(-v.height)
	case output.KeyTop:
		v.panel.Scroll(-v.panel.Offset())
	case output.KeyQuit:
		return true
	}
	return false
}

// draw renders one frame. On a terminal each frame starts from the top-left
// corner of a cleared screen.
func (v *watchView) draw() error {
	if v.tty {
		output.ResetToAnchor(v.out)
	}
	output.PrintPanelHeader(v.out, v.title(), v.status)
	if v.warning != "" {
		output.PrintWarning(v.out, v.warning)
	}

	visible := v.panel.Visible(v.height)
	if err := changelog.FormatBlocks(visible, v.out, v.opts); err != nil {
		return fmt.Errorf("drawing panel: %w", err)
	}
	output.PrintPanelFooter(v.out, v.summary(len(visible)), v.hint)
	return nil
}

func (v *watchView) title() string {
	return fmt.Sprintf("%s  %s..%s", v.history.ComponentID, v.args.base, v.args.compare)
}

func (v *watchView) summary(shown int) string {
	r := changelog.Report{
		ComponentID: v.history.ComponentID,
		Base:        v.args.base,
		Compare:     v.args.compare,
		Blocks:      v.panel.Blocks(),
	}
	summary := r.Summary()
	if shown > 0 && shown < len(r.Blocks) {
		first := v.panel.Offset() + 1
		summary += fmt.Sprintf(" (showing %d-%d)", first, first+shown-1)
	}
	return summary
}

// watchComparison builds the comparison for the named versions. Versions
// that do not resolve leave the range empty and are returned in missing.
func watchComparison(h *source.History, a watchArgs) (c compare.Comparison, comp compare.Component, missing []string) {
	c = compare.NewComparison(h.Logs, a.base, a.compare)
	for _, version := range []string{a.base, a.compare} {
		if _, ok := c.LogsByVersion.Lookup(version); !ok {
			missing = append(missing, version)
		}
	}

	comp = compare.Component{ID: h.ComponentID}
	if e, ok := c.LogsByVersion.Lookup(a.current); ok {
		comp.Version = e.Hash
	}
	latest := versionlog.Latest(h.Logs)
	if a.latest != "" {
		latest, _ = c.LogsByVersion.Lookup(a.latest)
	}
	if latest != nil {
		comp.Latest = latest.Hash
	}
	return c, comp, missing
}

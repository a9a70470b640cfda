package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ariel-frischer/snaplog/internal/cli/shared"
	"github.com/ariel-frischer/snaplog/internal/compare"
	"github.com/ariel-frischer/snaplog/internal/config"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/progress"
	"github.com/ariel-frischer/snaplog/internal/source"
	"github.com/ariel-frischer/snaplog/internal/versionlog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is what every history command starts from.
type session struct {
	cfg    *config.Configuration
	logger *zap.Logger
	loader *source.Loader
}

// newSession loads configuration and builds the logger and history loader
// for cmd. The caller syncs the logger when done.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := shared.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("source", cfg.Source),
		zap.String("output", cfg.Output))

	return &session{
		cfg:    cfg,
		logger: logger,
		loader: source.NewLoader(cfg,
			source.WithLogger(logger.Named("source")),
			source.WithSpinner(newSpinner(cmd)),
		),
	}, nil
}

// close flushes the logger. Sync fails on some terminals, which is harmless.
func (s *session) close() {
	_ = s.logger.Sync()
}

// newSpinner returns a spinner on the command's stderr. It stays silent
// unless that stderr is the process's terminal.
func newSpinner(cmd *cobra.Command) *progress.Spinner {
	caps := progress.DetectTerminalCapabilities()
	if f, ok := cmd.ErrOrStderr().(*os.File); !ok || f != os.Stderr {
		caps.IsTTY = false
	}
	return progress.NewSpinner(cmd.ErrOrStderr(), caps)
}

// endpoints are the user's version arguments resolved against a history.
type endpoints struct {
	base    *versionlog.LogEntry
	compare *versionlog.LogEntry
	current *versionlog.LogEntry
	latest  *versionlog.LogEntry
}

// resolveEndpoints looks up every named version. An unknown version is an
// argument error listing the versions that do exist. Without latest, the
// highest released version is used.
func resolveEndpoints(logs versionlog.LogList, base, compareVersion, current, latest string) (endpoints, error) {
	idx := versionlog.NewIndex(logs)
	var ep endpoints

	targets := []struct {
		version string
		dst     **versionlog.LogEntry
	}{
		{base, &ep.base},
		{compareVersion, &ep.compare},
		{current, &ep.current},
		{latest, &ep.latest},
	}
	for _, t := range targets {
		if t.version == "" {
			continue
		}
		e, err := idx.Get(t.version)
		if err != nil {
			return endpoints{}, versionError(err)
		}
		*t.dst = e
	}

	if ep.latest == nil {
		ep.latest = versionlog.Latest(logs)
	}
	return ep, nil
}

func versionError(err error) error {
	var notFound *versionlog.VersionNotFoundError
	if errors.As(err, &notFound) {
		return clierrors.VersionNotFound(notFound.Version, notFound.AvailableVersions)
	}
	return fmt.Errorf("resolving version: %w", err)
}

// component describes the displayed component. Entries are named by hash so
// that Block flags match exactly one entry.
func (ep endpoints) component(id string) compare.Component {
	c := compare.Component{ID: id}
	if ep.current != nil {
		c.Version = ep.current.Hash
	}
	if ep.latest != nil {
		c.Latest = ep.latest.Hash
	}
	return c
}

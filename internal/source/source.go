// Package source loads a component's version history from the place the
// configuration points at: a git repository or a log document on disk.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ariel-frischer/snaplog/internal/config"
	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
	"github.com/ariel-frischer/snaplog/internal/git"
	"github.com/ariel-frischer/snaplog/internal/progress"
	"github.com/ariel-frischer/snaplog/internal/versionlog"
	"go.uber.org/zap"
)

// History is a loaded version log plus what is needed to watch it for changes.
type History struct {
	ComponentID string
	Logs        versionlog.LogList

	// Exactly one of these is set, depending on the source kind.
	GitDir  string
	LogFile string
}

// Loader reads history according to a configuration.
type Loader struct {
	cfg     *config.Configuration
	logger  *zap.Logger
	spinner *progress.Spinner
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSpinner shows sp while a git history is walked.
func WithSpinner(sp *progress.Spinner) Option {
	return func(l *Loader) {
		l.spinner = sp
	}
}

// NewLoader creates a Loader for cfg.
func NewLoader(cfg *config.Configuration, opts ...Option) *Loader {
	l := &Loader{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configured history. Failures a user can fix come back as
// *errors.CLIError with remediation steps.
func (l *Loader) Load(ctx context.Context) (*History, error) {
	switch l.cfg.Source {
	case config.SourceFile:
		return l.loadFile()
	case config.SourceGit, "":
		return l.loadGit(ctx)
	default:
		return nil, clierrors.NewConfigError(
			fmt.Sprintf("unknown source %q", l.cfg.Source),
			"Valid sources: git, file",
		)
	}
}

func (l *Loader) loadGit(ctx context.Context) (*History, error) {
	path := l.cfg.RepoPath
	if path == "" {
		path = "."
	}

	repo, err := git.Open(path)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return nil, clierrors.GitNotRepository(path)
		}
		return nil, clierrors.WrapWithMessage(err, clierrors.Runtime, "opening repository")
	}

	started := time.Now()
	if l.spinner != nil {
		l.spinner.Start("Reading history...")
	}
	logs, err := repo.Log(ctx, l.cfg.Ref)
	if l.spinner != nil {
		if err != nil {
			l.spinner.Stop("Reading history failed", false)
		} else {
			l.spinner.Stop("", true)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	l.logger.Debug("loaded git history",
		zap.String("root", repo.Root()),
		zap.String("ref", l.cfg.Ref),
		zap.Int("entries", len(logs)),
		zap.Duration("elapsed", time.Since(started)))

	return &History{
		ComponentID: l.componentID(filepath.Base(repo.Root())),
		Logs:        logs,
		GitDir:      repo.GitDir(),
	}, nil
}

func (l *Loader) loadFile() (*History, error) {
	path := l.cfg.LogFile
	if path == "" {
		return nil, clierrors.LogFileRequired()
	}

	doc, err := versionlog.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierrors.LogFileNotFound(path)
		}
		return nil, clierrors.InvalidLogFile(path, err)
	}

	l.logger.Debug("loaded log document",
		zap.String("path", path),
		zap.Int("entries", len(doc.Logs)))

	fallback := doc.Component
	if fallback == "" {
		fallback = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &History{
		ComponentID: l.componentID(fallback),
		Logs:        doc.Logs,
		LogFile:     path,
	}, nil
}

// componentID prefers the configured id over what the source suggests.
func (l *Loader) componentID(fallback string) string {
	if l.cfg.ComponentID != "" {
		return l.cfg.ComponentID
	}
	return fallback
}

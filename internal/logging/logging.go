// Package logging builds the zap logger shared by snaplog commands.
// Diagnostic logs go to stderr; command output never goes through the logger.
package logging

import (
	"fmt"

	"github.com/ariel-frischer/snaplog/internal/git"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config returns the zap configuration for the given verbosity. Without
// debug only warnings and errors are logged.
func Config(debug bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.DisableStacktrace = false
	}
	return config
}

// New builds a logger. With debug enabled, go-git tracing from the git
// package is routed through it as well.
func New(debug bool) (*zap.Logger, error) {
	logger, err := Config(debug).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if debug {
		git.SetDebugLogger(logger.Named("git").Sugar().Debugf)
	} else {
		git.SetDebugLogger(nil)
	}
	return logger, nil
}

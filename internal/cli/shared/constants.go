// Package shared provides constants and helpers used across CLI subpackages.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/snaplog/internal/errors"
)

// Command group IDs for help output.
const (
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
	GroupInternal      = "internal"
)

// Exit codes for the snaplog CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	ExitSuccess             = clierrors.ExitSuccess
	ExitFailure             = clierrors.ExitFailure
	ExitInvalidArguments    = clierrors.ExitInvalidArguments
	ExitMissingDependencies = clierrors.ExitMissingDependencies
)

// exitError is an error that carries an exit code and nothing else. The
// command has already told the user what went wrong.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates an error that makes the process exit with code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsSilent reports whether err only carries an exit code and should not be
// printed again.
func IsSilent(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr.ExitCode()
	}
	return ExitFailure
}

package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the snaplog CLI.
// These templates ensure consistent, actionable error messages.

// maxListedVersions caps how many available versions VersionNotFound prints.
const maxListedVersions = 20

// MissingVersions creates an error for compare or watch invoked without both endpoints.
func MissingVersions(command string) *CLIError {
	return NewArgumentErrorWithUsage(
		"both a base and a compare version are required",
		fmt.Sprintf("snaplog %s <base> <compare>", command),
		"Versions can be tags (v1.2.0 or 1.2.0), full hashes, or hash prefixes of 4+ characters",
		"List versions with: snaplog log",
		"Or use --current / --latest to fill in an endpoint",
	)
}

// VersionNotFound creates an error for a version that matches no log entry.
// The available versions are listed so the user can pick a valid one.
func VersionNotFound(version string, available []string) *CLIError {
	err := NewArgumentError(
		fmt.Sprintf("version not found: %s", version),
		"Check the spelling; a leading 'v' is optional",
		"List all versions with: snaplog log",
	)
	if len(available) == 0 {
		err.Details = []string{"No versions are available."}
		return err
	}

	shown := available
	if len(shown) > maxListedVersions {
		shown = shown[:maxListedVersions]
	}
	err.Details = []string{"Available versions: " + strings.Join(shown, ", ")}
	if extra := len(available) - len(shown); extra > 0 {
		err.Details = append(err.Details, fmt.Sprintf("... and %d more", extra))
	}
	return err
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'snaplog <command> --help' to see valid options",
	)
}

// InvalidOutputFormat creates an error for an unknown --output value.
func InvalidOutputFormat(format string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid output format: %s", format),
		"Valid formats: "+strings.Join(valid, ", "),
		"Example: snaplog compare v1.0.0 v1.1.0 --output markdown",
	)
}

// GitNotRepository creates an error when the git source finds no repository.
func GitNotRepository(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", path),
		"Run snaplog inside a repository or pass --repo <path>",
		"Or read a log document instead: --source file --file <path>",
	)
}

// LogFileNotFound creates an error for a missing log document.
func LogFileNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("log file not found: %s", path),
		"Check the path passed with --file or set in log_file",
		"Export one from git with: snaplog log --export > "+path,
	)
}

// LogFileRequired creates an error when the file source has no document configured.
func LogFileRequired() *CLIError {
	return NewConfigError(
		"source is \"file\" but no log file is configured",
		"Pass --file <path>",
		"Or set it with: snaplog config set log_file <path>",
	)
}

// InvalidLogFile creates an error for a log document that fails to parse or validate.
func InvalidLogFile(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("invalid log file: %s", path),
		"Each entry needs a unique hash and a numeric millisecond date",
		"Validate the YAML with: snaplog log --source file --file "+path,
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check the file for YAML syntax errors",
		"Show the merged configuration with: snaplog config show",
		"Reset the project config with: snaplog init --force",
	)
}

// ConfigFileNotFound creates an error for a missing --config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Check the path passed with --config",
		"Create a project config with: snaplog init",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

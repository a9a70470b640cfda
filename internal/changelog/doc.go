// Package changelog renders the blocks of a version comparison.
//
// This package implements:
//   - terminal output with colored headers and current/latest badges
//   - Markdown sections suitable for release notes or pull requests
//   - JSON and YAML documents for scripting
//   - a one-line summary of how many versions the range holds
//
// Every renderer writes the blocks in the order they are given, which is the
// order of the underlying version log.
package changelog

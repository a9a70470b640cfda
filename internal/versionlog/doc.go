// Package versionlog models the version history of a component and extracts
// the range of versions between two endpoints.
//
// This package implements:
//   - LogEntry / LogList, the newest-first history of a component
//   - Between, the range extractor used by the compare panel
//   - Index, the version-identifier to entry lookup (tag, hash, hash prefix)
//   - Loading and validating log documents (YAML or JSON)
//
// Nothing in this package mutates a LogList. Between returns a capacity-clipped
// sub-slice of its input.
package versionlog

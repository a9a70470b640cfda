package versionlog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// minHashPrefix is the shortest hash prefix Lookup accepts.
const minHashPrefix = 4

// VersionNotFoundError is returned when a version identifier matches no entry.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// Index maps version identifiers to entries of a LogList.
// Tags are matched case-insensitively with an optional "v" prefix, hashes
// exactly or by unique prefix.
type Index struct {
	logs   LogList
	byTag  map[string]int
	byHash map[string]int
}

// NewIndex builds an Index over logs. When a tag or hash repeats, the first
// (newest) occurrence wins.
func NewIndex(logs LogList) *Index {
	idx := &Index{
		logs:   logs,
		byTag:  make(map[string]int, len(logs)),
		byHash: make(map[string]int, len(logs)),
	}
	for i, e := range logs {
		if e.Tag != "" {
			key := NormalizeVersion(e.Tag)
			if _, seen := idx.byTag[key]; !seen {
				idx.byTag[key] = i
			}
		}
		if _, seen := idx.byHash[e.Hash]; !seen {
			idx.byHash[e.Hash] = i
		}
	}
	return idx
}

// Lookup resolves version to an entry. The returned pointer refers to the
// indexed list's element and must not be modified.
func (x *Index) Lookup(version string) (*LogEntry, bool) {
	if x == nil || version == "" {
		return nil, false
	}
	if i, ok := x.byTag[NormalizeVersion(version)]; ok {
		return &x.logs[i], true
	}
	if i, ok := x.byHash[version]; ok {
		return &x.logs[i], true
	}
	return x.lookupPrefix(version)
}

// lookupPrefix matches a unique hash prefix. Ambiguous prefixes match nothing.
func (x *Index) lookupPrefix(prefix string) (*LogEntry, bool) {
	if len(prefix) < minHashPrefix {
		return nil, false
	}
	prefix = strings.ToLower(prefix)
	found := -1
	for i, e := range x.logs {
		if !strings.HasPrefix(e.Hash, prefix) {
			continue
		}
		if found >= 0 && x.logs[found].Hash != e.Hash {
			return nil, false
		}
		if found < 0 {
			found = i
		}
	}
	if found < 0 {
		return nil, false
	}
	return &x.logs[found], true
}

// Get is Lookup with a VersionNotFoundError for unknown versions.
func (x *Index) Get(version string) (*LogEntry, error) {
	if e, ok := x.Lookup(version); ok {
		return e, nil
	}
	var available []string
	if x != nil {
		available = x.logs.Labels()
	}
	return nil, &VersionNotFoundError{Version: version, AvailableVersions: available}
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.logs)
}

// NormalizeVersion lowercases a version and strips a leading "v" when a
// digit follows it, so "v1.2.0" and "1.2.0" are the same tag but "very" is
// not "ery".
func NormalizeVersion(version string) string {
	v := strings.ToLower(strings.TrimSpace(version))
	if len(v) > 1 && v[0] == 'v' && v[1] >= '0' && v[1] <= '9' {
		return v[1:]
	}
	return v
}

// Latest returns the entry carrying the highest semantic-version tag.
// When no tag parses as a version it returns the first (newest) entry, and nil
// for an empty list.
func Latest(logs LogList) *LogEntry {
	if len(logs) == 0 {
		return nil
	}
	best := -1
	var bestVer *semver.Version
	for i, e := range logs {
		if e.Tag == "" {
			continue
		}
		v, err := semver.NewVersion(e.Tag)
		if err != nil {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = i, v
		}
	}
	if best < 0 {
		return &logs[0]
	}
	return &logs[best]
}

// Package compare assembles the changelog shown when two versions of a
// component are compared: it resolves the base and compare endpoints, extracts
// the version range between them and flags the current and latest entries.
package compare

import (
	"github.com/ariel-frischer/snaplog/internal/versionlog"
)

// Side is one version of the component taking part in a comparison.
// Logs is the history as seen from that version (newest first).
type Side struct {
	Version string
	Logs    versionlog.LogList
}

// Comparison holds everything needed to compute the changelog panel.
// A zero Comparison yields an empty changelog.
type Comparison struct {
	Base          Side
	Compare       Side
	LogsByVersion *versionlog.Index
}

// NewComparison builds a comparison where both sides share the same history,
// which is the case for a single repository or log document.
func NewComparison(logs versionlog.LogList, baseVersion, compareVersion string) Comparison {
	return Comparison{
		Base:          Side{Version: baseVersion, Logs: logs},
		Compare:       Side{Version: compareVersion, Logs: logs},
		LogsByVersion: versionlog.NewIndex(logs),
	}
}

// Endpoints resolves the base and compare versions. Unresolvable versions
// come back nil.
func (c Comparison) Endpoints() (base, compare *versionlog.LogEntry) {
	base = c.resolve(c.Base.Version)
	compare = c.resolve(c.Compare.Version)
	return base, compare
}

func (c Comparison) resolve(version string) *versionlog.LogEntry {
	if version == "" || c.LogsByVersion == nil {
		return nil
	}
	e, ok := c.LogsByVersion.Lookup(version)
	if !ok {
		return nil
	}
	return e
}

// Logs returns the compare side's history restricted to the endpoint range.
func (c Comparison) Logs() versionlog.LogList {
	base, compare := c.Endpoints()
	return versionlog.Between(c.Compare.Logs, base, compare)
}

// Key identifies the endpoint pair by hash. Absent endpoints contribute "".
func (c Comparison) Key() PairKey {
	base, compare := c.Endpoints()
	var k PairKey
	if base != nil {
		k.Base = base.Hash
	}
	if compare != nil {
		k.Compare = compare.Hash
	}
	return k
}

// PairKey identifies a (base, compare) endpoint pair.
type PairKey struct {
	Base    string
	Compare string
}

// Component is the component currently on display.
type Component struct {
	ID      string
	Version string
	Latest  string
}

// Block is one entry of the changelog panel.
type Block struct {
	Entry       versionlog.LogEntry `json:"snap" yaml:"snap"`
	ComponentID string              `json:"componentId" yaml:"componentId"`
	IsCurrent   bool                `json:"isCurrent" yaml:"isCurrent"`
	IsLatest    bool                `json:"isLatest" yaml:"isLatest"`
}

// Blocks maps the comparison's log range to panel blocks.
func Blocks(c Comparison, comp Component) []Block {
	return blocksFor(c.Logs(), comp)
}

// HistoryBlocks maps a whole history to panel blocks, for listings that are
// not restricted to a range.
func HistoryBlocks(logs versionlog.LogList, comp Component) []Block {
	return blocksFor(logs, comp)
}

func blocksFor(logs versionlog.LogList, comp Component) []Block {
	blocks := make([]Block, len(logs))
	for i, e := range logs {
		blocks[i] = Block{
			Entry:       e,
			ComponentID: comp.ID,
			IsCurrent:   e.Is(comp.Version),
			IsLatest:    e.Is(comp.Latest),
		}
	}
	return blocks
}

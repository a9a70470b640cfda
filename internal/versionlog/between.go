package versionlog

import "time"

// Timestamp returns the point in time an endpoint represents for ordering.
// An absent endpoint, or one whose date is missing or malformed, counts as now.
func Timestamp(e *LogEntry, now time.Time) time.Time {
	if e == nil {
		return now
	}
	if t, ok := e.Time(); ok {
		return t
	}
	return now
}

// OrderByDate returns the two endpoints with the strictly earlier one first.
// Equal timestamps resolve to (b, a).
func OrderByDate(a, b *LogEntry, now time.Time) (start, end *LogEntry) {
	if Timestamp(a, now).Before(Timestamp(b, now)) {
		return a, b
	}
	return b, a
}

// Between returns the entries of all between base and compare, inclusive.
// See BetweenAt.
func Between(all LogList, base, compare *LogEntry) LogList {
	return BetweenAt(all, base, compare, time.Now())
}

// BetweenAt returns the contiguous run of all whose endpoints are base and
// compare, in all's own order. Endpoints are matched by hash at their first
// occurrence. The result is an empty, non-nil list when either endpoint is
// absent or has no match in all.
//
// Positions decide the run, not dates: if all is not sorted by date the
// result is still the positional slice between the two matches.
func BetweenAt(all LogList, base, compare *LogEntry, now time.Time) LogList {
	start, end := OrderByDate(base, compare, now)

	startIdx, endIdx := -1, -1
	for i := range all {
		if startIdx < 0 && start != nil && all[i].Hash == start.Hash {
			startIdx = i
		}
		if endIdx < 0 && end != nil && all[i].Hash == end.Hash {
			endIdx = i
		}
	}

	if startIdx < 0 || endIdx < 0 {
		return LogList{}
	}

	lo, hi := startIdx, endIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	return all[lo : hi+1 : hi+1]
}

package report

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/srodi/cgstats/pkg/types"
)

// roundingThreshold is the elapsed time above which reports round to minutes.
const roundingThreshold = 180 * time.Second

// TimeSpanError means the current snapshot is not newer than the prior one.
type TimeSpanError struct {
	Prior   time.Time
	Current time.Time
}

func (e *TimeSpanError) Error() string {
	return fmt.Sprintf("failed to calculate time span: snapshot from %s is not older than %s",
		e.Prior.Format(time.RFC3339), e.Current.Format(time.RFC3339))
}

// Compute turns two snapshots into per-cgroup loads. Only cgroups present in
// both snapshots with load >= threshold are kept, ordered by name.
func Compute(current, prior *types.Snapshot, cpus int, threshold float64) (types.PreparedResult, error) {
	var result types.PreparedResult
	if current == nil || prior == nil {
		return result, fmt.Errorf("compute: missing snapshot")
	}
	elapsed := current.CapturedAt.Sub(prior.CapturedAt)
	if elapsed <= 0 {
		return result, &TimeSpanError{Prior: prior.CapturedAt, Current: current.CapturedAt}
	}
	if cpus < 1 {
		cpus = 1
	}

	result.Elapsed = elapsed
	result.Users = deltaEntries(current.User, prior.User, elapsed, cpus, threshold)
	result.Services = deltaEntries(current.System, prior.System, elapsed, cpus, threshold)
	result.MaxNameWidth = maxNameWidth(result.Users, result.Services)
	return result, nil
}

// deltaEntries computes loads for one category. Counters are subtracted as
// signed values, so a recreated cgroup yields a negative load instead of a
// wrapped one.
func deltaEntries(now, before map[string]types.UsageCounter, elapsed time.Duration, cpus int, threshold float64) []types.DeltaEntry {
	names := make([]string, 0, len(now))
	for name := range now {
		if _, ok := before[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	capacity := float64(elapsed.Microseconds()) * float64(cpus)
	if capacity <= 0 {
		// Sub-microsecond spans still need a non-zero divisor.
		capacity = elapsed.Seconds() * 1e6 * float64(cpus)
	}

	entries := make([]types.DeltaEntry, 0, len(names))
	for _, name := range names {
		delta := int64(now[name]) - int64(before[name])
		load := float64(delta) / capacity
		if load >= threshold {
			entries = append(entries, types.DeltaEntry{Name: name, Load: load})
		}
	}
	return entries
}

func maxNameWidth(groups ...[]types.DeltaEntry) int {
	width := 0
	for _, group := range groups {
		for _, e := range group {
			width = max(width, utf8.RuneCountInString(e.Name))
		}
	}
	return width
}

// RoundElapsed truncates d to whole seconds and, from three minutes on,
// rounds half up to the nearest minute.
func RoundElapsed(d time.Duration) time.Duration {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	if time.Duration(secs)*time.Second < roundingThreshold {
		return time.Duration(secs) * time.Second
	}
	return time.Duration((secs+30)/60*60) * time.Second
}

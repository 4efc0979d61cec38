package types

import "time"

// DefaultThreshold hides cgroups using less than 1% of the machine.
const DefaultThreshold = 0.01

// UsageCounter is the cumulative CPU time of a cgroup in microseconds.
type UsageCounter uint64

// Snapshot holds the counters of the tracked cgroups captured at one point in time.
type Snapshot struct {
	CapturedAt time.Time               `yaml:"time"`
	User       map[string]UsageCounter `yaml:"user"`   // user.slice
	System     map[string]UsageCounter `yaml:"system"` // system.slice
}

// NewSnapshot returns an empty snapshot stamped with at.
func NewSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		CapturedAt: at,
		User:       make(map[string]UsageCounter),
		System:     make(map[string]UsageCounter),
	}
}

// DeltaEntry is the average per-core load of one cgroup between two snapshots.
type DeltaEntry struct {
	Name string
	Load float64
}

// PreparedResult is everything the renderer needs for one run.
type PreparedResult struct {
	Elapsed      time.Duration
	MaxNameWidth int
	Users        []DeltaEntry
	Services     []DeltaEntry
}

// Empty reports whether no cgroup passed the threshold.
func (r PreparedResult) Empty() bool {
	return len(r.Users)+len(r.Services) == 0
}

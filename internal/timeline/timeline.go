// Package timeline records the checkpoint timeline of a supervised run and
// dispatches pattern-matched triggers as checkpoints are appended.
package timeline

import (
	"time"
)

// Category tags a checkpoint with the subsystem that emitted it.
type Category string

const (
	CategoryLoad        Category = "LOAD"
	CategoryFunction    Category = "FUNC"
	CategorySyscall     Category = "SYSCALL"
	CategoryMemory      Category = "MEM"
	CategoryNetwork     Category = "NET"
	CategorySecurity    Category = "SEC"
	CategoryPerformance Category = "PERF"
	CategoryExit        Category = "EXIT"
)

// Capacity is the fixed number of checkpoints a timeline stores. Once
// full, further appends are dropped rather than overwriting old entries,
// keeping memory O(1) for tight automation loops.
const Capacity = 1024

// Checkpoint is a single timestamped, categorized event recorded during a
// supervised run. Stored checkpoints are never mutated after Append
// returns.
type Checkpoint struct {
	// ID is a human-authored, colon-delimited tag such as "SEC:overflow_detected".
	ID string

	// Category is the emitting subsystem's tag.
	Category Category

	// Context is free-text detail, possibly empty.
	Context string

	// Timestamp is the wall-clock time of the append.
	Timestamp time.Time

	// Offset is the time from the timeline baseline, millisecond
	// resolution or better.
	Offset time.Duration

	// TriggerFired reports whether any trigger matched this checkpoint.
	// Final by the time Append returns.
	TriggerFired bool

	// Persisted is false when the checkpoint was dropped because the
	// timeline was full.
	Persisted bool
}

// Timeline is an append-only checkpoint log with a monotonic clock
// baseline. It is written from a single supervising goroutine only;
// Dispatch is not designed for concurrent re-entrant calls.
type Timeline struct {
	start    time.Time
	entries  []Checkpoint
	dropped  int
	registry *Registry
	last     time.Duration
}

// New creates a timeline, capturing the monotonic baseline now. The
// registry may be nil for runs without triggers.
func New(registry *Registry) *Timeline {
	return &Timeline{
		start:    time.Now(),
		entries:  make([]Checkpoint, 0, Capacity),
		registry: registry,
	}
}

// Append records a checkpoint and synchronously dispatches matching
// triggers before returning, so TriggerFired is final on the returned
// value. When the timeline is full the append is a no-op: the returned
// checkpoint carries the data but is marked not persisted and no triggers
// fire for it.
func (t *Timeline) Append(id string, category Category, context string) Checkpoint {
	now := time.Now()
	offset := now.Sub(t.start)
	// The monotonic reading makes offsets non-decreasing already; guard
	// against a baseline captured without one.
	if offset < t.last {
		offset = t.last
	}
	t.last = offset

	cp := Checkpoint{
		ID:        id,
		Category:  category,
		Context:   context,
		Timestamp: now,
		Offset:    offset,
		Persisted: true,
	}

	if len(t.entries) >= Capacity {
		t.dropped++
		cp.Persisted = false
		return cp
	}

	t.entries = append(t.entries, cp)
	stored := &t.entries[len(t.entries)-1]
	if t.registry != nil {
		t.registry.Dispatch(stored)
	}
	return *stored
}

// Get returns the checkpoint at index i.
func (t *Timeline) Get(i int) (Checkpoint, bool) {
	if i < 0 || i >= len(t.entries) {
		return Checkpoint{}, false
	}
	return t.entries[i], true
}

// Len returns the number of stored checkpoints.
func (t *Timeline) Len() int {
	return len(t.entries)
}

// Dropped returns how many appends were discarded because the timeline
// was full. Callers surface a non-zero count as a warning alongside
// results; overflow never aborts a run.
func (t *Timeline) Dropped() int {
	return t.dropped
}

// All returns a snapshot of the stored checkpoints. The copy is safe to
// iterate any number of times.
func (t *Timeline) All() []Checkpoint {
	out := make([]Checkpoint, len(t.entries))
	copy(out, t.entries)
	return out
}

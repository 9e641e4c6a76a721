package watch

import (
	"time"
)

// Debouncer aggregates a burst of change events into a single fire decision.
// It keeps a sliding window of event timestamps and only reports "fire" once
// at least one event is recorded and no further event has arrived for the
// quiet period. The fire condition is a function of elapsed time, so callers
// must poll ShouldFire on a fixed tick rather than on event arrival.
//
// A Debouncer is owned by a single goroutine (the watch loop) and is not
// safe for concurrent use.
type Debouncer struct {
	window      time.Duration
	quietPeriod time.Duration
	events      []time.Time
	paths       map[string]struct{}
}

// NewDebouncer creates a debouncer with the given sliding window and quiet
// period. The window bounds how long recorded events are retained; the quiet
// period is the minimum silence required before ShouldFire reports true.
func NewDebouncer(window, quietPeriod time.Duration) *Debouncer {
	return &Debouncer{
		window:      window,
		quietPeriod: quietPeriod,
		paths:       make(map[string]struct{}),
	}
}

// Record notes a qualifying change to path at now. Entries older than the
// window are pruned lazily on each call. Recording restarts the quiet-period
// clock, so a burst must actually go silent before a fire.
func (d *Debouncer) Record(now time.Time, path string) {
	for len(d.events) > 0 && now.Sub(d.events[0]) > d.window {
		d.events = d.events[1:]
	}

	d.events = append(d.events, now)

	if path != "" {
		d.paths[path] = struct{}{}
	}
}

// ShouldFire reports whether a run should trigger at now: at least one event
// is recorded and the last one is at least the quiet period old. It does not
// mutate state; callers must Reset after acting on a true result.
func (d *Debouncer) ShouldFire(now time.Time) bool {
	if len(d.events) == 0 {
		return false
	}

	return now.Sub(d.events[len(d.events)-1]) >= d.quietPeriod
}

// Pending returns the number of events currently held in the window.
func (d *Debouncer) Pending() int {
	return len(d.events)
}

// Paths returns the distinct paths recorded since the last Reset, in
// unspecified order.
func (d *Debouncer) Paths() []string {
	paths := make([]string, 0, len(d.paths))
	for p := range d.paths {
		paths = append(paths, p)
	}

	return paths
}

// Reset clears all recorded events and paths, returning the debouncer to
// its idle state.
func (d *Debouncer) Reset() {
	d.events = d.events[:0]
	d.paths = make(map[string]struct{})
}

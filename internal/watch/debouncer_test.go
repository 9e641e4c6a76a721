package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// base is an arbitrary fixed instant; the debouncer only looks at deltas.
var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func newTestDebouncer() *Debouncer {
	return NewDebouncer(time.Second, 500*time.Millisecond)
}

func TestDebouncer_EmptyNeverFires(t *testing.T) {
	d := newTestDebouncer()

	assert.False(t, d.ShouldFire(at(0)))
	assert.False(t, d.ShouldFire(at(10_000)))
}

func TestDebouncer_FiresAfterQuietPeriod(t *testing.T) {
	d := newTestDebouncer()

	// Burst at t=0, 150, 300 — the quiet period counts from the last event,
	// so the first fire happens at t=800, not t=500.
	d.Record(at(0), "a.txt")
	d.Record(at(150), "b.txt")
	d.Record(at(300), "a.txt")

	assert.False(t, d.ShouldFire(at(600)))
	assert.False(t, d.ShouldFire(at(799)))
	assert.True(t, d.ShouldFire(at(800)))
	assert.True(t, d.ShouldFire(at(2000)))
}

func TestDebouncer_NewEventResetsQuietClock(t *testing.T) {
	d := newTestDebouncer()

	d.Record(at(0), "a.txt")
	assert.True(t, d.ShouldFire(at(500)))

	// An event arriving while the fire condition holds restarts the clock.
	d.Record(at(500), "a.txt")
	assert.False(t, d.ShouldFire(at(600)))
	assert.True(t, d.ShouldFire(at(1000)))
}

func TestDebouncer_ShouldFireDoesNotMutate(t *testing.T) {
	d := newTestDebouncer()

	d.Record(at(0), "a.txt")

	assert.True(t, d.ShouldFire(at(600)))
	assert.True(t, d.ShouldFire(at(600)))
	assert.Equal(t, 1, d.Pending())
}

func TestDebouncer_ResetReturnsToIdle(t *testing.T) {
	d := newTestDebouncer()

	d.Record(at(0), "a.txt")
	d.Record(at(100), "b.txt")
	d.Reset()

	assert.False(t, d.ShouldFire(at(100)))
	assert.False(t, d.ShouldFire(at(5000)))
	assert.Equal(t, 0, d.Pending())
	assert.Empty(t, d.Paths())
}

func TestDebouncer_WindowPruning(t *testing.T) {
	d := newTestDebouncer()

	d.Record(at(0), "a.txt")
	d.Record(at(400), "a.txt")
	assert.Equal(t, 2, d.Pending())

	// t=0 and t=400 are both older than the 1s window by t=1500.
	d.Record(at(1500), "a.txt")
	assert.Equal(t, 1, d.Pending())
}

func TestDebouncer_PathsAreDeduplicated(t *testing.T) {
	d := newTestDebouncer()

	d.Record(at(0), "a.txt")
	d.Record(at(50), "a.txt")
	d.Record(at(100), "b.txt")

	paths := d.Paths()
	assert.Len(t, paths, 2)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, paths)
}

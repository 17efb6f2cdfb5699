package lifecycle

import "time"

// Clock abstracts wall-clock time and periodic ticks so countdowns and
// sweeps can be driven by a simulated clock in tests.
type Clock interface {
	Now() time.Time
	// Tick returns a channel firing roughly every d, plus a stop function
	// that releases the underlying ticker.
	Tick(d time.Duration) (<-chan time.Time, func())
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// SystemClock returns the real wall-clock backed Clock.
func SystemClock() Clock { return systemClock{} }

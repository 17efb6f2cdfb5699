package lifecycle

import (
	"fmt"
	"sync"
	"time"
)

// Remaining is a decomposed non-negative duration until a target instant.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// RemainingUntil decomposes target minus now, floored to whole seconds and
// clamped at zero.
func RemainingUntil(target, now time.Time) Remaining {
	left := target.Sub(now)
	if left < 0 {
		left = 0
	}
	secs := int(left / time.Second)
	return Remaining{
		Days:    secs / 86400,
		Hours:   (secs % 86400) / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
	}
}

// String renders "{d}d HH:MM:SS", dropping the day part when zero.
func (r Remaining) String() string {
	if r.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", r.Days, r.Hours, r.Minutes, r.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// IsZero reports whether no time remains.
func (r Remaining) IsZero() bool {
	return r.Days == 0 && r.Hours == 0 && r.Minutes == 0 && r.Seconds == 0
}

// Countdown drives onTick once a second until the target passes, then fires
// onExpired exactly once and stops. Each tick recomputes target minus now,
// so missed ticks self-correct instead of drifting.
type Countdown struct {
	stopTick func()
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// StartCountdown begins ticking against the given clock. Callbacks run on
// the countdown's own goroutine, one at a time. Stop must not be called
// from inside a callback.
func StartCountdown(clock Clock, target time.Time, onTick func(Remaining), onExpired func()) *Countdown {
	ticks, stopTick := clock.Tick(time.Second)
	cd := &Countdown{
		stopTick: stopTick,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go cd.run(clock, target, ticks, onTick, onExpired)
	return cd
}

func (cd *Countdown) run(clock Clock, target time.Time, ticks <-chan time.Time, onTick func(Remaining), onExpired func()) {
	defer close(cd.finished)
	for {
		select {
		case <-cd.done:
			return
		case <-ticks:
			if !target.After(clock.Now()) {
				if onExpired != nil {
					onExpired()
				}
				// Returning here makes re-firing impossible.
				return
			}
			if onTick != nil {
				onTick(RemainingUntil(target, clock.Now()))
			}
		}
	}
}

// Stop cancels the countdown and releases its ticker. It blocks until the
// tick loop has exited, so no callback fires after Stop returns. Safe to
// call multiple times and after expiry.
func (cd *Countdown) Stop() {
	cd.once.Do(func() {
		cd.stopTick()
		close(cd.done)
	})
	<-cd.finished
}

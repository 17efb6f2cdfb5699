package lifecycle

import (
	"log"
	"sync"
	"time"
)

// SweeperStore is the persistence hook the sweeper drives: transition
// overdue entities and report how many rows changed.
type SweeperStore interface {
	CompleteOverdueConsultations(now time.Time) (int64, error)
	CompleteElapsedCampaigns(now time.Time) (int64, error)
}

// Sweeper periodically applies the auto-completion rules: consultations
// past their effective end still scheduled or in progress become completed,
// campaigns past their end date become completed. Cancelled entities are
// never touched by the store implementations.
type Sweeper struct {
	clock    Clock
	store    SweeperStore
	interval time.Duration

	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

func NewSweeper(clock Clock, store SweeperStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		clock:    clock,
		store:    store,
		interval: interval,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start runs the sweep loop in a goroutine. One immediate sweep happens on
// start so restarts catch up without waiting a full interval.
func (s *Sweeper) Start() {
	ticks, stopTick := s.clock.Tick(s.interval)
	go func() {
		defer close(s.finished)
		defer stopTick()
		s.sweep()
		for {
			select {
			case <-s.done:
				return
			case <-ticks:
				s.sweep()
			}
		}
	}()
}

// Stop halts the loop and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.finished
}

func (s *Sweeper) sweep() {
	now := s.clock.Now()
	if n, err := s.store.CompleteOverdueConsultations(now); err != nil {
		log.Printf("sweeper: auto-complete consultations failed: %v", err)
	} else if n > 0 {
		log.Printf("sweeper: auto-completed %d consultation(s)", n)
	}
	if n, err := s.store.CompleteElapsedCampaigns(now); err != nil {
		log.Printf("sweeper: complete campaigns failed: %v", err)
	} else if n > 0 {
		log.Printf("sweeper: completed %d campaign(s)", n)
	}
}

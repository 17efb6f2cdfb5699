package lifecycle

import (
	"testing"
	"time"
)

type recordingStore struct {
	swept chan time.Time
}

func (r *recordingStore) CompleteOverdueConsultations(now time.Time) (int64, error) {
	r.swept <- now
	return 1, nil
}

func (r *recordingStore) CompleteElapsedCampaigns(time.Time) (int64, error) {
	return 0, nil
}

func TestSweeperRunsAndStops(t *testing.T) {
	clk := newFakeClock(mustTime("2025-01-01T00:00:00Z"))
	store := &recordingStore{swept: make(chan time.Time, 16)}

	s := NewSweeper(clk, store, time.Minute)
	s.Start()

	// One sweep fires immediately on start.
	select {
	case <-store.swept:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial sweep")
	}

	clk.Advance(time.Minute)
	select {
	case now := <-store.swept:
		if !now.Equal(mustTime("2025-01-01T00:01:00Z")) {
			t.Fatalf("sweep used wrong now: %v", now)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for periodic sweep")
	}

	s.Stop()
	for i := 0; i < 5; i++ {
		clk.Advance(time.Minute)
	}
	select {
	case <-store.swept:
		t.Fatal("sweep ran after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

package services

import (
	"testing"
	"time"

	"healthlink-backend/lifecycle"
	"healthlink-backend/models"
)

// fixedClock pins Now for view derivation; ticks are unused here.
type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func (f fixedClock) Tick(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)
	return ch, func() {}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return parsed
}

func TestCampaignViewCountdown(t *testing.T) {
	now := mustTime(t, "2025-01-09T00:00:00Z")
	deadline := mustTime(t, "2025-01-10T02:30:45Z")
	svc := &CampaignService{Clock: fixedClock{now: now}}

	campaign := models.Campaign{
		Status:               models.CampaignUpcoming,
		RegistrationDeadline: &deadline,
	}

	view := svc.ViewFor(campaign, lifecycle.Viewer{ID: 42, Role: models.RolePatient})
	if view.Phase != lifecycle.PhaseOpen {
		t.Fatalf("phase = %q, want open", view.Phase)
	}
	if view.Resolution.Primary != lifecycle.ActionRegister {
		t.Fatalf("primary = %q, want register", view.Resolution.Primary)
	}
	if view.Remaining == nil {
		t.Fatal("expected remaining for open countdown")
	}
	want := lifecycle.Remaining{Days: 1, Hours: 2, Minutes: 30, Seconds: 45}
	if *view.Remaining != want {
		t.Fatalf("remaining = %+v, want %+v", *view.Remaining, want)
	}
}

func TestCampaignViewClosedHasNoCountdown(t *testing.T) {
	now := mustTime(t, "2025-01-11T00:00:00Z")
	deadline := mustTime(t, "2025-01-10T00:00:00Z")
	svc := &CampaignService{Clock: fixedClock{now: now}}

	campaign := models.Campaign{
		Status:               models.CampaignUpcoming,
		RegistrationDeadline: &deadline,
	}

	view := svc.ViewFor(campaign, lifecycle.Viewer{ID: 42, Role: models.RolePatient})
	if view.Phase != lifecycle.PhaseClosed {
		t.Fatalf("phase = %q, want closed", view.Phase)
	}
	if view.Resolution.Primary != lifecycle.ActionClosed {
		t.Fatalf("primary = %q, want closed", view.Resolution.Primary)
	}
	if view.Remaining != nil {
		t.Fatalf("closed campaign must not carry a countdown, got %+v", *view.Remaining)
	}
}

func TestConsultationViewUpcomingCountdown(t *testing.T) {
	now := mustTime(t, "2025-02-01T09:59:00Z")
	start := mustTime(t, "2025-02-01T10:00:00Z")
	providerID := uint(22)
	svc := &ConsultationService{Clock: fixedClock{now: now}}

	cons := models.Consultation{
		Status:      models.ConsultationScheduled,
		Type:        models.ConsultVideo,
		PatientID:   11,
		ProviderID:  &providerID,
		ScheduledAt: &start,
	}

	view := svc.ViewFor(cons, lifecycle.Viewer{ID: 11, Role: models.RolePatient})
	if view.Phase != lifecycle.PhaseUpcoming {
		t.Fatalf("phase = %q, want upcoming", view.Phase)
	}
	if view.Resolution.Primary != lifecycle.ActionNone {
		t.Fatalf("join must be withheld before the window, got %q", view.Resolution.Primary)
	}
	if view.Remaining == nil {
		t.Fatal("expected countdown to start")
	}
	if got := view.Remaining.String(); got != "00:01:00" {
		t.Fatalf("remaining display = %q, want 00:01:00", got)
	}
}

func TestConsultationViewActiveJoin(t *testing.T) {
	now := mustTime(t, "2025-02-01T10:15:00Z")
	start := mustTime(t, "2025-02-01T10:00:00Z")
	end := mustTime(t, "2025-02-01T10:30:00Z")
	providerID := uint(22)
	svc := &ConsultationService{Clock: fixedClock{now: now}}

	cons := models.Consultation{
		Status:       models.ConsultationScheduled,
		Type:         models.ConsultVideo,
		PatientID:    11,
		ProviderID:   &providerID,
		ScheduledAt:  &start,
		ScheduledEnd: &end,
	}

	view := svc.ViewFor(cons, lifecycle.Viewer{ID: 11, Role: models.RolePatient})
	if view.Resolution.Primary != lifecycle.ActionJoin {
		t.Fatalf("primary = %q, want join", view.Resolution.Primary)
	}
	if view.Remaining != nil {
		t.Fatal("no start countdown while the window is already open")
	}
}

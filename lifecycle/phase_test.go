package lifecycle

import (
	"testing"
	"time"

	"healthlink-backend/models"
)

func TestCampaignPhase(t *testing.T) {
	deadline := mustTime("2025-01-10T00:00:00Z")

	tests := []struct {
		name     string
		campaign models.Campaign
		now      time.Time
		want     Phase
	}{
		{
			name:     "open before deadline",
			campaign: models.Campaign{Status: models.CampaignUpcoming, RegistrationDeadline: timePtr(deadline)},
			now:      mustTime("2025-01-09T00:00:00Z"),
			want:     PhaseOpen,
		},
		{
			name:     "closed after deadline",
			campaign: models.Campaign{Status: models.CampaignUpcoming, RegistrationDeadline: timePtr(deadline)},
			now:      mustTime("2025-01-11T00:00:00Z"),
			want:     PhaseClosed,
		},
		{
			name:     "open at exact deadline",
			campaign: models.Campaign{Status: models.CampaignUpcoming, RegistrationDeadline: timePtr(deadline)},
			now:      deadline,
			want:     PhaseOpen,
		},
		{
			name:     "missing deadline is unknown",
			campaign: models.Campaign{Status: models.CampaignUpcoming},
			now:      mustTime("2025-01-09T00:00:00Z"),
			want:     PhaseUnknown,
		},
		{
			name:     "cancelled wins over open window",
			campaign: models.Campaign{Status: models.CampaignCancelled, RegistrationDeadline: timePtr(deadline)},
			now:      mustTime("2025-01-01T00:00:00Z"),
			want:     PhaseCancelled,
		},
		{
			name:     "cancelled wins over closed window",
			campaign: models.Campaign{Status: models.CampaignCancelled, RegistrationDeadline: timePtr(deadline)},
			now:      mustTime("2030-01-01T00:00:00Z"),
			want:     PhaseCancelled,
		},
		{
			name:     "cancelled wins with no deadline at all",
			campaign: models.Campaign{Status: models.CampaignCancelled},
			now:      mustTime("1990-01-01T00:00:00Z"),
			want:     PhaseCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CampaignPhase(&tt.campaign, tt.now); got != tt.want {
				t.Fatalf("CampaignPhase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConsultationPhase(t *testing.T) {
	start := mustTime("2025-02-01T10:00:00Z")
	end := mustTime("2025-02-01T10:30:00Z")

	tests := []struct {
		name string
		cons models.Consultation
		now  time.Time
		want Phase
	}{
		{
			name: "upcoming before start",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start), ScheduledEnd: timePtr(end)},
			now:  mustTime("2025-02-01T09:00:00Z"),
			want: PhaseUpcoming,
		},
		{
			name: "active inside window",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start), ScheduledEnd: timePtr(end)},
			now:  mustTime("2025-02-01T10:15:00Z"),
			want: PhaseActive,
		},
		{
			name: "active at exact start",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start), ScheduledEnd: timePtr(end)},
			now:  start,
			want: PhaseActive,
		},
		{
			name: "active at exact end",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start), ScheduledEnd: timePtr(end)},
			now:  end,
			want: PhaseActive,
		},
		{
			name: "ended after window",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start), ScheduledEnd: timePtr(end)},
			now:  mustTime("2025-02-01T10:31:00Z"),
			want: PhaseEnded,
		},
		{
			name: "default thirty minute window still active",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start)},
			now:  mustTime("2025-02-01T10:30:00Z"),
			want: PhaseActive,
		},
		{
			name: "default thirty minute window ended",
			cons: models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start)},
			now:  mustTime("2025-02-01T10:30:01Z"),
			want: PhaseEnded,
		},
		{
			name: "missing start is unknown",
			cons: models.Consultation{Status: models.ConsultationRequested},
			now:  start,
			want: PhaseUnknown,
		},
		{
			name: "cancelled dominates active window",
			cons: models.Consultation{Status: models.ConsultationCancelled, ScheduledAt: timePtr(start), ScheduledEnd: timePtr(end)},
			now:  mustTime("2025-02-01T10:15:00Z"),
			want: PhaseCancelled,
		},
		{
			name: "denied dominates upcoming window",
			cons: models.Consultation{Status: models.ConsultationDenied, ScheduledAt: timePtr(start)},
			now:  mustTime("2025-01-01T00:00:00Z"),
			want: PhaseDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsultationPhase(&tt.cons, tt.now); got != tt.want {
				t.Fatalf("ConsultationPhase = %q, want %q", got, tt.want)
			}
		})
	}
}

// Phase order per entity: later timestamps must never move the phase
// backwards while the status stays put.
func TestPhaseMonotonicity(t *testing.T) {
	campaignOrder := map[Phase]int{PhaseOpen: 0, PhaseClosed: 1}
	consultationOrder := map[Phase]int{PhaseUpcoming: 0, PhaseActive: 1, PhaseEnded: 2}

	deadline := mustTime("2025-01-10T00:00:00Z")
	campaign := models.Campaign{Status: models.CampaignUpcoming, RegistrationDeadline: timePtr(deadline)}

	start := mustTime("2025-02-01T10:00:00Z")
	cons := models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start)}

	base := mustTime("2025-01-01T00:00:00Z")
	prevCampaign := -1
	prevCons := -1
	for i := 0; i < 100; i++ {
		now := base.Add(time.Duration(i) * 12 * time.Hour)

		cp := CampaignPhase(&campaign, now)
		if rank, ok := campaignOrder[cp]; !ok {
			t.Fatalf("unexpected campaign phase %q at %v", cp, now)
		} else if rank < prevCampaign {
			t.Fatalf("campaign phase regressed to %q at %v", cp, now)
		} else {
			prevCampaign = rank
		}

		xp := ConsultationPhase(&cons, now)
		if rank, ok := consultationOrder[xp]; !ok {
			t.Fatalf("unexpected consultation phase %q at %v", xp, now)
		} else if rank < prevCons {
			t.Fatalf("consultation phase regressed to %q at %v", xp, now)
		} else {
			prevCons = rank
		}
	}
}

func TestNeedsAutoComplete(t *testing.T) {
	start := mustTime("2025-02-01T10:00:00Z")
	after := mustTime("2025-02-01T11:00:00Z")

	tests := []struct {
		name string
		cons models.Consultation
		now  time.Time
		want bool
	}{
		{"scheduled past window", models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start)}, after, true},
		{"in progress past window", models.Consultation{Status: models.ConsultationInProgress, ScheduledAt: timePtr(start)}, after, true},
		{"scheduled inside window", models.Consultation{Status: models.ConsultationScheduled, ScheduledAt: timePtr(start)}, start.Add(10 * time.Minute), false},
		{"completed already", models.Consultation{Status: models.ConsultationCompleted, ScheduledAt: timePtr(start)}, after, false},
		{"cancelled never auto-completes", models.Consultation{Status: models.ConsultationCancelled, ScheduledAt: timePtr(start)}, after, false},
		{"no schedule no auto-complete", models.Consultation{Status: models.ConsultationScheduled}, after, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsAutoComplete(&tt.cons, tt.now); got != tt.want {
				t.Fatalf("NeedsAutoComplete = %v, want %v", got, tt.want)
			}
		})
	}
}

package lifecycle

import (
	"time"

	"healthlink-backend/models"
)

// Phase is a derived, read-only classification of a time-bound entity's
// position in its lifecycle. It is computed from status plus timestamps and
// never stored; the persisted column stays the entity's Status.
type Phase string

const (
	// PhaseUnknown means a required timestamp is missing: render no
	// countdown and offer no action.
	PhaseUnknown Phase = "unknown"

	// Campaign phases.
	PhaseOpen   Phase = "open"
	PhaseClosed Phase = "closed"

	// Consultation phases.
	PhaseUpcoming Phase = "upcoming"
	PhaseActive   Phase = "active"
	PhaseEnded    Phase = "ended"
	PhaseDenied   Phase = "denied"

	// Shared terminal phase. Status-derived, dominates every time rule.
	PhaseCancelled Phase = "cancelled"
)

// CampaignPhase classifies a campaign's registration window at the given
// instant. Cancelled status wins over any deadline; a missing deadline
// yields PhaseUnknown.
func CampaignPhase(c *models.Campaign, now time.Time) Phase {
	if c.Status == models.CampaignCancelled {
		return PhaseCancelled
	}
	if c.RegistrationDeadline == nil {
		return PhaseUnknown
	}
	if now.After(*c.RegistrationDeadline) {
		return PhaseClosed
	}
	return PhaseOpen
}

// ConsultationPhase classifies a consultation relative to its scheduled
// window. Cancelled and denied statuses dominate; otherwise the window is
// [ScheduledAt, EffectiveEnd], with EffectiveEnd defaulting to start plus
// thirty minutes when no explicit end was set.
func ConsultationPhase(c *models.Consultation, now time.Time) Phase {
	switch c.Status {
	case models.ConsultationCancelled:
		return PhaseCancelled
	case models.ConsultationDenied:
		return PhaseDenied
	}
	if c.ScheduledAt == nil {
		return PhaseUnknown
	}
	end := c.EffectiveEnd()
	if now.After(*end) {
		return PhaseEnded
	}
	if now.Before(*c.ScheduledAt) {
		return PhaseUpcoming
	}
	return PhaseActive
}

// NeedsAutoComplete reports whether a consultation should be transitioned to
// completed: its window has ended but the status still says scheduled or
// in progress. The caller persists the transition; this stays pure.
func NeedsAutoComplete(c *models.Consultation, now time.Time) bool {
	if c.Status != models.ConsultationScheduled && c.Status != models.ConsultationInProgress {
		return false
	}
	end := c.EffectiveEnd()
	return end != nil && now.After(*end)
}

package lifecycle

import (
	"time"

	"healthlink-backend/models"
)

// Action is the single primary control exposed to a viewer for one entity
// at one instant.
type Action string

const (
	ActionRegister          Action = "register"
	ActionAlreadyRegistered Action = "already_registered"
	ActionClosed            Action = "closed"
	ActionCancelled         Action = "cancelled"
	ActionCancel            Action = "cancel"
	ActionJoin              Action = "join"
	ActionTimeOver          Action = "time_over"
	ActionRespond           Action = "respond"
	ActionNone              Action = "none"
)

// Resolution is what the resolver hands the presentation layer: exactly one
// primary action plus independent secondary flags.
type Resolution struct {
	Primary Action `json:"primary"`

	CanRemove     bool `json:"can_remove,omitempty"`
	CanDismiss    bool `json:"can_dismiss,omitempty"`
	CanRespond    bool `json:"can_respond,omitempty"`
	ShowCountdown bool `json:"show_countdown,omitempty"`
}

// ResolveCampaignAction picks the control to show a viewer on a campaign.
// First match wins, in this order: already registered, then the cancelled
// status, then a closed window, then management, then registration.
func ResolveCampaignAction(c *models.Campaign, phase Phase, v Viewer) Resolution {
	if v.ID != 0 && c.HasRegistration(v.ID) {
		return Resolution{Primary: ActionAlreadyRegistered}
	}

	switch phase {
	case PhaseCancelled:
		return Resolution{
			Primary:   ActionCancelled,
			CanRemove: v.ID != 0 && (v.ID == c.CreatedByID || Can(v, CapRemoveCampaigns)),
		}
	case PhaseClosed:
		return Resolution{Primary: ActionClosed}
	case PhaseUnknown:
		return Resolution{Primary: ActionNone}
	}

	if v.ID != 0 && (v.ID == c.CreatedByID || Can(v, CapManageCampaigns)) {
		return Resolution{Primary: ActionCancel}
	}
	if Can(v, CapRegisterCampaigns) {
		return Resolution{Primary: ActionRegister, ShowCountdown: true}
	}
	return Resolution{Primary: ActionNone}
}

// ResolveConsultationAction picks the control for a consultation. Join is
// only offered to participants of remote (video/audio) consultations inside
// the scheduled window; after the window, TimeOver with an optional dismiss.
// Accept/deny availability is independent of the time rules.
func ResolveConsultationAction(c *models.Consultation, phase Phase, v Viewer, now time.Time) Resolution {
	res := Resolution{Primary: ActionNone}

	if c.Status == models.ConsultationRequested && Can(v, CapRespondConsultation) {
		res.CanRespond = true
	}

	participant := isParticipant(c, v)

	switch phase {
	case PhaseCancelled, PhaseDenied:
		res.Primary = ActionCancelled
		return res
	case PhaseUpcoming:
		// Join withheld before the window opens.
		res.ShowCountdown = participant && c.IsRemote()
	case PhaseActive:
		if participant && c.IsRemote() && c.Status != models.ConsultationCompleted {
			res.Primary = ActionJoin
		}
	case PhaseEnded:
		res.Primary = ActionTimeOver
		res.CanDismiss = participant && c.Status != models.ConsultationCompleted
	}

	if res.Primary == ActionNone && res.CanRespond {
		res.Primary = ActionRespond
	}
	return res
}

func isParticipant(c *models.Consultation, v Viewer) bool {
	if v.ID == 0 {
		return false
	}
	if v.ID == c.PatientID {
		return true
	}
	return c.ProviderID != nil && *c.ProviderID == v.ID
}

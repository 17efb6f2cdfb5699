package lifecycle

import (
	"testing"

	"healthlink-backend/models"
)

func TestResolveCampaignAction(t *testing.T) {
	deadline := mustTime("2025-01-10T00:00:00Z")
	organizerID := uint(7)

	open := models.Campaign{
		Status:               models.CampaignUpcoming,
		CreatedByID:          organizerID,
		RegistrationDeadline: timePtr(deadline),
	}
	registered := open
	registered.Registrations = []models.CampaignRegistration{{UserID: 42}}

	cancelled := open
	cancelled.Status = models.CampaignCancelled

	tests := []struct {
		name       string
		campaign   models.Campaign
		phase      Phase
		viewer     Viewer
		want       Action
		wantRemove bool
	}{
		{"patient can register while open", open, PhaseOpen, Viewer{ID: 42, Role: models.RolePatient}, ActionRegister, false},
		{"registered patient sees already registered", registered, PhaseOpen, Viewer{ID: 42, Role: models.RolePatient}, ActionAlreadyRegistered, false},
		{"already registered wins even after close", registered, PhaseClosed, Viewer{ID: 42, Role: models.RolePatient}, ActionAlreadyRegistered, false},
		{"patient sees closed after deadline", open, PhaseClosed, Viewer{ID: 42, Role: models.RolePatient}, ActionClosed, false},
		{"organizer sees cancel not register", open, PhaseOpen, Viewer{ID: organizerID, Role: models.RolePatient}, ActionCancel, false},
		{"ngo sees cancel", open, PhaseOpen, Viewer{ID: 3, Role: models.RoleNGO}, ActionCancel, false},
		{"health worker sees cancel", open, PhaseOpen, Viewer{ID: 3, Role: models.RoleHealthWorker}, ActionCancel, false},
		{"plain user sees nothing", open, PhaseOpen, Viewer{ID: 9, Role: models.RoleUser}, ActionNone, false},
		{"anonymous sees nothing", open, PhaseOpen, Viewer{}, ActionNone, false},
		{"cancelled for patient, no remove", cancelled, PhaseCancelled, Viewer{ID: 42, Role: models.RolePatient}, ActionCancelled, false},
		{"cancelled for organizer offers remove", cancelled, PhaseCancelled, Viewer{ID: organizerID, Role: models.RolePatient}, ActionCancelled, true},
		{"cancelled for admin offers remove", cancelled, PhaseCancelled, Viewer{ID: 5, Role: models.RoleAdmin}, ActionCancelled, true},
		{"unknown phase offers nothing even to admin", open, PhaseUnknown, Viewer{ID: 5, Role: models.RoleAdmin}, ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCampaignAction(&tt.campaign, tt.phase, tt.viewer)
			if got.Primary != tt.want {
				t.Fatalf("Primary = %q, want %q", got.Primary, tt.want)
			}
			if got.CanRemove != tt.wantRemove {
				t.Fatalf("CanRemove = %v, want %v", got.CanRemove, tt.wantRemove)
			}
		})
	}
}

// The scenario from the campaign listing: open window yields Register for a
// patient, the same campaign after the deadline yields Closed.
func TestCampaignRegisterThenClosed(t *testing.T) {
	campaign := models.Campaign{
		Status:               models.CampaignUpcoming,
		RegistrationDeadline: timePtr(mustTime("2025-01-10T00:00:00Z")),
	}
	viewer := Viewer{ID: 42, Role: models.RolePatient}

	before := mustTime("2025-01-09T00:00:00Z")
	if phase := CampaignPhase(&campaign, before); phase != PhaseOpen {
		t.Fatalf("phase before deadline = %q, want open", phase)
	} else if got := ResolveCampaignAction(&campaign, phase, viewer); got.Primary != ActionRegister {
		t.Fatalf("action before deadline = %q, want register", got.Primary)
	}

	after := mustTime("2025-01-11T00:00:00Z")
	if phase := CampaignPhase(&campaign, after); phase != PhaseClosed {
		t.Fatalf("phase after deadline = %q, want closed", phase)
	} else if got := ResolveCampaignAction(&campaign, phase, viewer); got.Primary != ActionClosed {
		t.Fatalf("action after deadline = %q, want closed", got.Primary)
	}
}

func TestResolveConsultationAction(t *testing.T) {
	start := mustTime("2025-02-01T10:00:00Z")
	end := mustTime("2025-02-01T10:30:00Z")
	patientID := uint(11)
	providerID := uint(22)

	scheduled := models.Consultation{
		Status:       models.ConsultationScheduled,
		Type:         models.ConsultVideo,
		PatientID:    patientID,
		ProviderID:   &providerID,
		ScheduledAt:  timePtr(start),
		ScheduledEnd: timePtr(end),
	}
	inPerson := scheduled
	inPerson.Type = models.ConsultInPerson

	requested := models.Consultation{
		Status:    models.ConsultationRequested,
		Type:      models.ConsultVideo,
		PatientID: patientID,
	}

	patient := Viewer{ID: patientID, Role: models.RolePatient}
	provider := Viewer{ID: providerID, Role: models.RoleDoctor}
	stranger := Viewer{ID: 99, Role: models.RolePatient}

	t.Run("join inside window for patient", func(t *testing.T) {
		now := mustTime("2025-02-01T10:15:00Z")
		got := ResolveConsultationAction(&scheduled, ConsultationPhase(&scheduled, now), patient, now)
		if got.Primary != ActionJoin {
			t.Fatalf("Primary = %q, want join", got.Primary)
		}
	})

	t.Run("join inside window for provider", func(t *testing.T) {
		now := mustTime("2025-02-01T10:15:00Z")
		got := ResolveConsultationAction(&scheduled, ConsultationPhase(&scheduled, now), provider, now)
		if got.Primary != ActionJoin {
			t.Fatalf("Primary = %q, want join", got.Primary)
		}
	})

	t.Run("no join for non-participant", func(t *testing.T) {
		now := mustTime("2025-02-01T10:15:00Z")
		got := ResolveConsultationAction(&scheduled, ConsultationPhase(&scheduled, now), stranger, now)
		if got.Primary != ActionNone {
			t.Fatalf("Primary = %q, want none", got.Primary)
		}
	})

	t.Run("no join for in-person type", func(t *testing.T) {
		now := mustTime("2025-02-01T10:15:00Z")
		got := ResolveConsultationAction(&inPerson, ConsultationPhase(&inPerson, now), patient, now)
		if got.Primary != ActionNone {
			t.Fatalf("Primary = %q, want none", got.Primary)
		}
	})

	t.Run("countdown before window, join withheld", func(t *testing.T) {
		now := mustTime("2025-02-01T09:00:00Z")
		got := ResolveConsultationAction(&scheduled, ConsultationPhase(&scheduled, now), patient, now)
		if got.Primary != ActionNone {
			t.Fatalf("Primary = %q, want none", got.Primary)
		}
		if !got.ShowCountdown {
			t.Fatal("expected countdown for upcoming participant")
		}
	})

	t.Run("time over with dismiss after window", func(t *testing.T) {
		now := mustTime("2025-02-01T10:31:00Z")
		got := ResolveConsultationAction(&scheduled, ConsultationPhase(&scheduled, now), patient, now)
		if got.Primary != ActionTimeOver {
			t.Fatalf("Primary = %q, want time_over", got.Primary)
		}
		if !got.CanDismiss {
			t.Fatal("expected dismiss to be offered")
		}
	})

	t.Run("no dismiss once completed", func(t *testing.T) {
		done := scheduled
		done.Status = models.ConsultationCompleted
		now := mustTime("2025-02-01T10:31:00Z")
		got := ResolveConsultationAction(&done, ConsultationPhase(&done, now), patient, now)
		if got.Primary != ActionTimeOver {
			t.Fatalf("Primary = %q, want time_over", got.Primary)
		}
		if got.CanDismiss {
			t.Fatal("dismiss must not be offered on a completed consultation")
		}
	})

	t.Run("default window joins until thirty minutes", func(t *testing.T) {
		open := scheduled
		open.ScheduledEnd = nil
		inside := mustTime("2025-02-01T10:29:00Z")
		got := ResolveConsultationAction(&open, ConsultationPhase(&open, inside), patient, inside)
		if got.Primary != ActionJoin {
			t.Fatalf("Primary inside default window = %q, want join", got.Primary)
		}
		past := mustTime("2025-02-01T10:31:00Z")
		got = ResolveConsultationAction(&open, ConsultationPhase(&open, past), patient, past)
		if got.Primary != ActionTimeOver {
			t.Fatalf("Primary past default window = %q, want time_over", got.Primary)
		}
	})

	t.Run("provider may respond to a request", func(t *testing.T) {
		now := mustTime("2025-02-01T09:00:00Z")
		got := ResolveConsultationAction(&requested, ConsultationPhase(&requested, now), provider, now)
		if got.Primary != ActionRespond {
			t.Fatalf("Primary = %q, want respond", got.Primary)
		}
		if !got.CanRespond {
			t.Fatal("expected CanRespond for provider role")
		}
	})

	t.Run("patient may not respond to own request", func(t *testing.T) {
		now := mustTime("2025-02-01T09:00:00Z")
		got := ResolveConsultationAction(&requested, ConsultationPhase(&requested, now), patient, now)
		if got.CanRespond {
			t.Fatal("patient must not get accept/deny")
		}
	})

	t.Run("cancelled suppresses everything", func(t *testing.T) {
		gone := scheduled
		gone.Status = models.ConsultationCancelled
		now := mustTime("2025-02-01T10:15:00Z")
		got := ResolveConsultationAction(&gone, ConsultationPhase(&gone, now), patient, now)
		if got.Primary != ActionCancelled {
			t.Fatalf("Primary = %q, want cancelled", got.Primary)
		}
		if got.ShowCountdown || got.CanDismiss {
			t.Fatal("no countdown or dismiss on a cancelled consultation")
		}
	})
}

// Every resolution carries exactly one primary action; sweep a grid of
// inputs and make sure the resolver never comes back empty or out of set.
func TestResolutionAlwaysSinglePrimary(t *testing.T) {
	valid := map[Action]bool{
		ActionRegister: true, ActionAlreadyRegistered: true, ActionClosed: true,
		ActionCancelled: true, ActionCancel: true, ActionJoin: true,
		ActionTimeOver: true, ActionRespond: true, ActionNone: true,
	}

	deadline := mustTime("2025-01-10T00:00:00Z")
	start := mustTime("2025-02-01T10:00:00Z")
	statuses := []string{
		models.CampaignUpcoming, models.CampaignActive,
		models.CampaignCompleted, models.CampaignCancelled,
	}
	roles := []string{
		models.RolePatient, models.RoleDoctor, models.RoleHealthWorker,
		models.RoleNGO, models.RoleAdmin, models.RoleUser, "",
	}
	times := []string{"2025-01-01T00:00:00Z", "2025-01-10T00:00:00Z", "2026-01-01T00:00:00Z"}

	for _, st := range statuses {
		for _, role := range roles {
			for _, ts := range times {
				now := mustTime(ts)
				c := models.Campaign{Status: st, CreatedByID: 1, RegistrationDeadline: timePtr(deadline)}
				got := ResolveCampaignAction(&c, CampaignPhase(&c, now), Viewer{ID: 42, Role: role})
				if !valid[got.Primary] {
					t.Fatalf("campaign resolution out of set: %q (status=%s role=%s now=%s)", got.Primary, st, role, ts)
				}
			}
		}
	}

	consStatuses := []string{
		models.ConsultationRequested, models.ConsultationScheduled,
		models.ConsultationInProgress, models.ConsultationCompleted,
		models.ConsultationCancelled, models.ConsultationDenied,
	}
	for _, st := range consStatuses {
		for _, role := range roles {
			for _, ts := range times {
				now := mustTime(ts)
				pid := uint(22)
				c := models.Consultation{Status: st, Type: models.ConsultVideo, PatientID: 42, ProviderID: &pid, ScheduledAt: timePtr(start)}
				got := ResolveConsultationAction(&c, ConsultationPhase(&c, now), Viewer{ID: 42, Role: role}, now)
				if !valid[got.Primary] {
					t.Fatalf("consultation resolution out of set: %q (status=%s role=%s now=%s)", got.Primary, st, role, ts)
				}
			}
		}
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role string
		cap  Capability
		want bool
	}{
		{models.RoleAdmin, CapManageUsers, true},
		{models.RoleAdmin, CapManageCampaigns, true},
		{models.RoleNGO, CapManageCampaigns, true},
		{models.RoleNGO, CapRespondConsultation, false},
		{models.RoleHealthWorker, CapRespondConsultation, true},
		{models.RoleDoctor, CapRespondConsultation, true},
		{models.RoleDoctor, CapManageCampaigns, false},
		{models.RolePatient, CapRegisterCampaigns, true},
		{models.RolePatient, CapManageCampaigns, false},
		{models.RoleUser, CapRegisterCampaigns, false},
		{"", CapRegisterCampaigns, false},
		{"made_up_role", CapManageUsers, false},
	}
	for _, tt := range tests {
		if got := Can(Viewer{ID: 1, Role: tt.role}, tt.cap); got != tt.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

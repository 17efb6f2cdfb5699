// services/consultation_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"healthlink-backend/lifecycle"
	"healthlink-backend/models"
	"healthlink-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrConsultationNotFound  = errors.New("consultation_not_found")
	ErrConsultationForbidden = errors.New("consultation_forbidden")
	ErrConsultationTerminal  = errors.New("consultation_terminal")
	ErrNotRespondable        = errors.New("consultation_not_respondable")
	ErrNotJoinable           = errors.New("consultation_not_joinable")
	ErrInvalidVerdict        = errors.New("invalid_verdict")
	ErrInvalidConsultType    = errors.New("invalid_consultation_type")
	ErrScheduleRequired      = errors.New("schedule_required")
)

var validConsultTypes = map[string]bool{
	models.ConsultVideo:    true,
	models.ConsultAudio:    true,
	models.ConsultInPerson: true,
}

type ConsultationService struct {
	DB    *gorm.DB
	Clock lifecycle.Clock
}

func NewConsultationService(db *gorm.DB, clock lifecycle.Clock) *ConsultationService {
	if clock == nil {
		clock = lifecycle.SystemClock()
	}
	return &ConsultationService{DB: db, Clock: clock}
}

// Request creates a consultation in requested state. The provider may be
// left open for any provider to pick up.
func (s *ConsultationService) Request(patientID uint, providerID *uint, consultType, reason string) (*models.Consultation, error) {
	if consultType == "" {
		consultType = models.ConsultVideo
	}
	if !validConsultTypes[consultType] {
		return nil, ErrInvalidConsultType
	}
	if providerID != nil {
		var provider models.User
		if err := s.DB.First(&provider, *providerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to check provider: %w", err)
		}
		if !provider.IsProvider() {
			return nil, ErrInvalidRole
		}
	}

	cons := &models.Consultation{
		PatientID:  patientID,
		ProviderID: providerID,
		Type:       consultType,
		Status:     models.ConsultationRequested,
		Reason:     strings.TrimSpace(reason),
	}
	if err := s.DB.Create(cons).Error; err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}
	return cons, nil
}

// ListForViewer returns the consultations the viewer may see: patients get
// their own, providers get assigned plus unassigned requests, admins all.
// Overdue entries are auto-completed before the list is returned so phase
// never appears to run backwards against status.
func (s *ConsultationService) ListForViewer(viewer lifecycle.Viewer) ([]models.Consultation, error) {
	q := s.DB.
		Preload("Patient").
		Preload("Provider").
		Order("scheduled_at IS NULL, scheduled_at ASC")

	switch {
	case lifecycle.Can(viewer, lifecycle.CapManageUsers):
		// admins see everything
	case lifecycle.Can(viewer, lifecycle.CapRespondConsultation):
		q = q.Where("provider_id = ? OR (provider_id IS NULL AND status = ?)", viewer.ID, models.ConsultationRequested)
	default:
		q = q.Where("patient_id = ?", viewer.ID)
	}

	var list []models.Consultation
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve consultations: %w", err)
	}

	now := s.Clock.Now()
	for i := range list {
		s.applyAutoComplete(&list[i], now)
	}
	return list, nil
}

// GetForViewer loads one consultation and enforces visibility.
func (s *ConsultationService) GetForViewer(id uint, viewer lifecycle.Viewer) (*models.Consultation, error) {
	var cons models.Consultation
	err := s.DB.
		Preload("Patient").
		Preload("Provider").
		First(&cons, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("failed to retrieve consultation: %w", err)
	}
	if !s.mayView(&cons, viewer) {
		return nil, ErrConsultationForbidden
	}
	s.applyAutoComplete(&cons, s.Clock.Now())
	return &cons, nil
}

func (s *ConsultationService) mayView(cons *models.Consultation, viewer lifecycle.Viewer) bool {
	if lifecycle.Can(viewer, lifecycle.CapManageUsers) {
		return true
	}
	if viewer.ID == cons.PatientID {
		return true
	}
	if cons.ProviderID != nil && *cons.ProviderID == viewer.ID {
		return true
	}
	// unassigned requests are visible to any provider role
	return cons.ProviderID == nil &&
		cons.Status == models.ConsultationRequested &&
		lifecycle.Can(viewer, lifecycle.CapRespondConsultation)
}

// applyAutoComplete persists the scheduled-past-window -> completed
// transition on read. Best-effort: a failed update leaves the row for the
// background sweeper.
func (s *ConsultationService) applyAutoComplete(cons *models.Consultation, now time.Time) {
	if !lifecycle.NeedsAutoComplete(cons, now) {
		return
	}
	if err := s.DB.Model(cons).
		Where("status IN ?", []string{models.ConsultationScheduled, models.ConsultationInProgress}).
		Updates(map[string]interface{}{"status": models.ConsultationCompleted}).Error; err != nil {
		log.Printf("auto-complete consultation %d failed: %v", cons.ID, err)
		return
	}
	cons.Status = models.ConsultationCompleted
}

// Respond handles accept / deny / completed on a consultation.
//   - accept: provider takes the request, schedules the window, mints the
//     meeting code for remote types, and the patient gets an invite email.
//   - deny: terminal denied state.
//   - completed: dismisses an ended consultation (the TimeOver control).
func (s *ConsultationService) Respond(id uint, viewer lifecycle.Viewer, verdict string, scheduledAt, scheduledEnd *time.Time) (*models.Consultation, error) {
	var cons models.Consultation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Patient").
			First(&cons, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConsultationNotFound
			}
			return err
		}

		switch verdict {
		case "accept", "deny":
			if cons.Status != models.ConsultationRequested {
				return ErrNotRespondable
			}
			if !lifecycle.Can(viewer, lifecycle.CapRespondConsultation) {
				return ErrConsultationForbidden
			}
			if cons.ProviderID != nil && *cons.ProviderID != viewer.ID {
				return ErrConsultationForbidden
			}

			if verdict == "deny" {
				return tx.Model(&cons).Updates(map[string]interface{}{
					"status":      models.ConsultationDenied,
					"provider_id": viewer.ID,
				}).Error
			}

			if scheduledAt == nil {
				return ErrScheduleRequired
			}
			updates := map[string]interface{}{
				"status":        models.ConsultationScheduled,
				"provider_id":   viewer.ID,
				"scheduled_at":  scheduledAt,
				"scheduled_end": scheduledEnd,
			}
			if cons.IsRemote() && cons.MeetingCode == "" {
				updates["meeting_code"] = utils.NewMeetingCode()
			}
			return tx.Model(&cons).Updates(updates).Error

		case "completed":
			// the Dismiss control after TimeOver
			phase := lifecycle.ConsultationPhase(&cons, s.Clock.Now())
			res := lifecycle.ResolveConsultationAction(&cons, phase, viewer, s.Clock.Now())
			if !res.CanDismiss {
				return ErrNotRespondable
			}
			return tx.Model(&cons).Updates(map[string]interface{}{
				"status": models.ConsultationCompleted,
			}).Error

		default:
			return ErrInvalidVerdict
		}
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Patient").Preload("Provider").First(&cons, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload consultation: %w", err)
	}

	if verdict == "accept" && cons.IsRemote() && cons.Patient.Email != "" {
		scheduled := "TBD"
		if cons.ScheduledAt != nil {
			scheduled = cons.ScheduledAt.Format(time.RFC1123)
		}
		providerName := ""
		if cons.Provider != nil {
			providerName = cons.Provider.FullName
		}
		if mailErr := utils.SendConsultationInviteEmail(
			cons.Patient.Email,
			cons.Patient.FullName,
			providerName,
			scheduled,
			utils.BuildMeetingLink(cons.MeetingCode),
		); mailErr != nil {
			log.Printf("invite email for consultation %d failed: %v", cons.ID, mailErr)
		}
	}
	return &cons, nil
}

// Cancel marks a consultation cancelled. Participants only; terminal
// states stay terminal.
func (s *ConsultationService) Cancel(id uint, viewer lifecycle.Viewer) (*models.Consultation, error) {
	cons, err := s.GetForViewer(id, viewer)
	if err != nil {
		return nil, err
	}
	isPatient := viewer.ID == cons.PatientID
	isProvider := cons.ProviderID != nil && *cons.ProviderID == viewer.ID
	if !isPatient && !isProvider && !lifecycle.Can(viewer, lifecycle.CapManageUsers) {
		return nil, ErrConsultationForbidden
	}
	switch cons.Status {
	case models.ConsultationCancelled, models.ConsultationDenied, models.ConsultationCompleted:
		return nil, ErrConsultationTerminal
	}
	if err := s.DB.Model(cons).Updates(map[string]interface{}{"status": models.ConsultationCancelled}).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel consultation: %w", err)
	}
	return cons, nil
}

// JoinInfo returns the meeting link, but only while the resolver actually
// offers Join to this viewer.
func (s *ConsultationService) JoinInfo(id uint, viewer lifecycle.Viewer) (string, error) {
	cons, err := s.GetForViewer(id, viewer)
	if err != nil {
		return "", err
	}
	now := s.Clock.Now()
	phase := lifecycle.ConsultationPhase(cons, now)
	res := lifecycle.ResolveConsultationAction(cons, phase, viewer, now)
	if res.Primary != lifecycle.ActionJoin {
		return "", ErrNotJoinable
	}
	return utils.BuildMeetingLink(cons.MeetingCode), nil
}

// ConsultationView mirrors CampaignView for consultations.
type ConsultationView struct {
	Consultation models.Consultation  `json:"consultation"`
	Phase        lifecycle.Phase      `json:"phase"`
	Resolution   lifecycle.Resolution `json:"resolution"`
	Remaining    *lifecycle.Remaining `json:"remaining,omitempty"`
}

// ViewFor derives the viewer-facing state of one consultation snapshot.
// Remaining counts down to the start while upcoming.
func (s *ConsultationService) ViewFor(cons models.Consultation, viewer lifecycle.Viewer) ConsultationView {
	now := s.Clock.Now()
	phase := lifecycle.ConsultationPhase(&cons, now)
	res := lifecycle.ResolveConsultationAction(&cons, phase, viewer, now)

	view := ConsultationView{Consultation: cons, Phase: phase, Resolution: res}
	if res.ShowCountdown && cons.ScheduledAt != nil {
		r := lifecycle.RemainingUntil(*cons.ScheduledAt, now)
		view.Remaining = &r
	}
	return view
}

// CompleteOverdueConsultations is the sweeper hook. The window end falls
// back to start plus thirty minutes when no explicit end is stored.
func (s *ConsultationService) CompleteOverdueConsultations(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Consultation{}).
		Where("scheduled_at IS NOT NULL").
		Where("status IN ?", []string{models.ConsultationScheduled, models.ConsultationInProgress}).
		Where("COALESCE(scheduled_end, DATE_ADD(scheduled_at, INTERVAL 30 MINUTE)) < ?", now).
		Updates(map[string]interface{}{"status": models.ConsultationCompleted})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to auto-complete consultations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

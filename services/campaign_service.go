// services/campaign_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"healthlink-backend/lifecycle"
	"healthlink-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCampaignNotFound        = errors.New("campaign_not_found")
	ErrCampaignForbidden       = errors.New("campaign_forbidden")
	ErrCampaignCancelled       = errors.New("campaign_cancelled")
	ErrRegistrationClosed      = errors.New("registration_closed")
	ErrRegistrationUnavailable = errors.New("registration_unavailable")
	ErrAlreadyRegistered       = errors.New("already_registered")
)

type CampaignService struct {
	DB    *gorm.DB
	Clock lifecycle.Clock
}

func NewCampaignService(db *gorm.DB, clock lifecycle.Clock) *CampaignService {
	if clock == nil {
		clock = lifecycle.SystemClock()
	}
	return &CampaignService{DB: db, Clock: clock}
}

type CampaignInput struct {
	Title                string
	Description          string
	Location             string
	StartsAt             *time.Time
	EndsAt               *time.Time
	RegistrationDeadline *time.Time
}

// Create stores a campaign. Management capability required.
func (s *CampaignService) Create(viewer lifecycle.Viewer, in CampaignInput) (*models.Campaign, error) {
	if !lifecycle.Can(viewer, lifecycle.CapManageCampaigns) {
		return nil, ErrCampaignForbidden
	}
	campaign := &models.Campaign{
		Title:                strings.TrimSpace(in.Title),
		Description:          strings.TrimSpace(in.Description),
		Location:             strings.TrimSpace(in.Location),
		StartsAt:             in.StartsAt,
		EndsAt:               in.EndsAt,
		RegistrationDeadline: in.RegistrationDeadline,
		Status:               models.CampaignUpcoming,
		CreatedByID:          viewer.ID,
	}
	if err := s.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

func (s *CampaignService) GetAllWithRelations() ([]models.Campaign, error) {
	var list []models.Campaign
	if err := s.DB.
		Preload("CreatedBy").
		Preload("Registrations").
		Preload("Registrations.User").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve campaigns: %w", err)
	}
	for i := range list {
		if list[i].Registrations == nil {
			list[i].Registrations = []models.CampaignRegistration{}
		}
	}
	return list, nil
}

func (s *CampaignService) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.DB.
		Preload("CreatedBy").
		Preload("Registrations").
		Preload("Registrations.User").
		First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to retrieve campaign: %w", err)
	}
	return &campaign, nil
}

// Register adds the user to the campaign. The registration window is
// evaluated against the service clock; duplicates are rejected both here
// and by the unique index underneath.
func (s *CampaignService) Register(campaignID, userID uint, notes string, preferredTime *time.Time) (*models.CampaignRegistration, error) {
	now := s.Clock.Now()

	var reg *models.CampaignRegistration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Registrations").
			First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}

		switch lifecycle.CampaignPhase(&campaign, now) {
		case lifecycle.PhaseCancelled:
			return ErrCampaignCancelled
		case lifecycle.PhaseClosed:
			return ErrRegistrationClosed
		case lifecycle.PhaseUnknown:
			return ErrRegistrationUnavailable
		}

		if campaign.HasRegistration(userID) {
			return ErrAlreadyRegistered
		}

		reg = &models.CampaignRegistration{
			CampaignID:    campaignID,
			UserID:        userID,
			Notes:         strings.TrimSpace(notes),
			PreferredTime: preferredTime,
		}
		if err := tx.Create(reg).Error; err != nil {
			if isDuplicateError(err) {
				return ErrAlreadyRegistered
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Cancel marks the campaign cancelled. Organizer or management capability.
// Cancelling twice is a no-op conflict.
func (s *CampaignService) Cancel(campaignID uint, viewer lifecycle.Viewer) (*models.Campaign, error) {
	campaign, err := s.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if viewer.ID != campaign.CreatedByID && !lifecycle.Can(viewer, lifecycle.CapManageCampaigns) {
		return nil, ErrCampaignForbidden
	}
	if campaign.Status == models.CampaignCancelled {
		return nil, ErrCampaignCancelled
	}
	if err := s.DB.Model(campaign).Updates(map[string]interface{}{"status": models.CampaignCancelled}).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel campaign: %w", err)
	}
	return campaign, nil
}

// Delete removes a campaign entirely. Separate explicit action, allowed for
// the organizer and removal-capable roles regardless of phase.
func (s *CampaignService) Delete(campaignID uint, viewer lifecycle.Viewer) error {
	campaign, err := s.GetByID(campaignID)
	if err != nil {
		return err
	}
	if viewer.ID != campaign.CreatedByID && !lifecycle.Can(viewer, lifecycle.CapRemoveCampaigns) {
		return ErrCampaignForbidden
	}
	if err := s.DB.Delete(campaign).Error; err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// CampaignView is the list/detail payload: the entity plus the derived
// phase, the viewer's resolution, and the remaining time when a countdown
// applies. Derived fresh from the snapshot on every call, never stored.
type CampaignView struct {
	Campaign   models.Campaign      `json:"campaign"`
	Phase      lifecycle.Phase      `json:"phase"`
	Resolution lifecycle.Resolution `json:"resolution"`
	Remaining  *lifecycle.Remaining `json:"remaining,omitempty"`
}

// ViewFor derives the viewer-facing state of one campaign snapshot.
func (s *CampaignService) ViewFor(campaign models.Campaign, viewer lifecycle.Viewer) CampaignView {
	now := s.Clock.Now()
	phase := lifecycle.CampaignPhase(&campaign, now)
	res := lifecycle.ResolveCampaignAction(&campaign, phase, viewer)

	view := CampaignView{Campaign: campaign, Phase: phase, Resolution: res}
	if res.ShowCountdown && campaign.RegistrationDeadline != nil {
		r := lifecycle.RemainingUntil(*campaign.RegistrationDeadline, now)
		view.Remaining = &r
	}
	return view
}

// CompleteElapsedCampaigns is the sweeper hook: campaigns whose end date
// passed move to completed. Cancelled campaigns are left alone.
func (s *CampaignService) CompleteElapsedCampaigns(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Campaign{}).
		Where("ends_at IS NOT NULL AND ends_at < ?", now).
		Where("status IN ?", []string{models.CampaignUpcoming, models.CampaignActive}).
		Updates(map[string]interface{}{"status": models.CampaignCompleted})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to complete campaigns: %w", res.Error)
	}
	return res.RowsAffected, nil
}

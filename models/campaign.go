package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses. Cancelled is terminal.
const (
	CampaignUpcoming  = "upcoming"
	CampaignActive    = "active"
	CampaignCompleted = "completed"
	CampaignCancelled = "cancelled"
)

type Campaign struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"size:255" json:"location,omitempty"`

	StartsAt             *time.Time `gorm:"column:starts_at" json:"starts_at,omitempty"`
	EndsAt               *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline" json:"registration_deadline,omitempty"`

	Status      string `gorm:"size:32;index;default:upcoming" json:"status"`
	CreatedByID uint   `gorm:"index;column:created_by_id" json:"created_by_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy     User                   `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
	Registrations []CampaignRegistration `gorm:"foreignKey:CampaignID" json:"registrations"`
}

// HasRegistration reports whether the given user already registered.
func (c *Campaign) HasRegistration(userID uint) bool {
	for _, r := range c.Registrations {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

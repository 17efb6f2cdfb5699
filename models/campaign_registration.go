package models

import "time"

// CampaignRegistration links a user to a campaign. The composite unique
// index rejects duplicate registrations at the database level; the service
// also checks first so callers get a clean conflict error.
type CampaignRegistration struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CampaignID uint `gorm:"not null;index:idx_campaign_user,unique" json:"campaign_id"`
	UserID     uint `gorm:"not null;index:idx_campaign_user,unique" json:"user_id"`

	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	PreferredTime *time.Time `gorm:"column:preferred_time" json:"preferred_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

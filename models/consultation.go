package models

import (
	"time"

	"gorm.io/gorm"
)

// Consultation statuses. Cancelled and denied are terminal.
const (
	ConsultationRequested  = "requested"
	ConsultationScheduled  = "scheduled"
	ConsultationInProgress = "in_progress"
	ConsultationCompleted  = "completed"
	ConsultationCancelled  = "cancelled"
	ConsultationDenied     = "denied"
)

// Consultation types.
const (
	ConsultVideo    = "video"
	ConsultAudio    = "audio"
	ConsultInPerson = "in_person"
)

// DefaultConsultationWindow is assumed when no explicit end time is set.
const DefaultConsultationWindow = 30 * time.Minute

type Consultation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID  uint  `gorm:"index;column:patient_id" json:"patient_id"`
	ProviderID *uint `gorm:"index;column:provider_id" json:"provider_id,omitempty"`

	Type   string `gorm:"size:32;default:video" json:"type"`
	Status string `gorm:"size:32;index;default:requested" json:"status"`

	ScheduledAt  *time.Time `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	ScheduledEnd *time.Time `gorm:"column:scheduled_end" json:"scheduled_end,omitempty"`

	MeetingCode string `gorm:"size:64;index" json:"meeting_code,omitempty"`
	Reason      string `gorm:"type:text" json:"reason,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Patient  User  `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	Provider *User `gorm:"foreignKey:ProviderID;references:ID" json:"provider,omitempty"`
}

// EffectiveEnd returns the end of the consultation window: ScheduledEnd when
// set, otherwise ScheduledAt plus the default window. Nil when the
// consultation has no scheduled start at all.
func (c *Consultation) EffectiveEnd() *time.Time {
	if c.ScheduledEnd != nil {
		return c.ScheduledEnd
	}
	if c.ScheduledAt == nil {
		return nil
	}
	end := c.ScheduledAt.Add(DefaultConsultationWindow)
	return &end
}

// IsRemote reports whether the consultation happens over the meeting
// provider (video or audio) rather than in person.
func (c *Consultation) IsRemote() bool {
	return c.Type == ConsultVideo || c.Type == ConsultAudio
}

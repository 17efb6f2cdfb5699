package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report statuses.
const (
	ReportSubmitted   = "submitted"
	ReportUnderReview = "under_review"
	ReportResolved    = "resolved"
)

// Report severities, as submitted by the report wizard.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type HealthReport struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReporterID  uint           `gorm:"index;column:reporter_id" json:"reporter_id"`
	Category    string         `gorm:"size:100" json:"category"`
	Symptoms    datatypes.JSON `gorm:"column:symptoms" json:"symptoms,omitempty"`
	Severity    string         `gorm:"size:32;default:low" json:"severity"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"size:255" json:"location,omitempty"`
	Status      string         `gorm:"size:32;index;default:submitted" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reporter  User       `gorm:"foreignKey:ReporterID;references:ID" json:"reporter,omitempty"`
	FollowUps []FollowUp `gorm:"foreignKey:ReportID" json:"follow_ups"`
}

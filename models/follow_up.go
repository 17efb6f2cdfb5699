package models

import (
	"time"

	"gorm.io/gorm"
)

type FollowUp struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReportID    uint       `gorm:"index;column:report_id" json:"report_id"`
	AuthorID    uint       `gorm:"index;column:author_id" json:"author_id"`
	Note        string     `gorm:"type:text" json:"note"`
	NextVisitAt *time.Time `gorm:"column:next_visit_at" json:"next_visit_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

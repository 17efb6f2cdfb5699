package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values accepted for User.Role. Kept as plain strings because the
// column is a string; capability mapping lives in the lifecycle package.
const (
	RolePatient      = "patient"
	RoleDoctor       = "doctor"
	RoleHealthWorker = "health_worker"
	RoleNGO          = "ngo"
	RoleAdmin        = "admin"
	RoleUser         = "user"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255" json:"full_name"`
	Email    string `gorm:"uniqueIndex;size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"` // store hashed password, never return in JSON
	Role     string `gorm:"size:32;index;default:patient" json:"role"`
	Phone    string `gorm:"size:32" json:"phone,omitempty"`
	Location string `gorm:"size:255" json:"location,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsProvider reports whether the user can accept or deny consultations.
func (u *User) IsProvider() bool {
	return u.Role == RoleDoctor || u.Role == RoleHealthWorker
}

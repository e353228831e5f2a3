package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStandard Role = "standard"
	RoleElevated Role = "elevated"
)

// User is a portal account able to obtain tokens. Applicants are not users.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
}

func (u User) Role() Role {
	if u.IsStaff {
		return RoleElevated
	}
	return RoleStandard
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID uint
	Email  string
	Role   Role
}

func (i Identity) Elevated() bool { return i.Role == RoleElevated }

type Applicant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Phone     *string   `gorm:"size:15" json:"phone"`
	Resume    *string   `json:"resume"`
	CreatedAt time.Time `json:"applied_on"`
}

type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"posted_on"`
}

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
)

// ParseStatus accepts only the closed status set.
func ParseStatus(value string) (ApplicationStatus, bool) {
	switch s := ApplicationStatus(strings.TrimSpace(value)); s {
	case StatusApplied, StatusShortlisted, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// Application links one applicant to one job; the pair is unique.
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ApplicantID uint              `gorm:"not null;uniqueIndex:idx_application_applicant_job" json:"applicant"`
	JobID       uint              `gorm:"not null;uniqueIndex:idx_application_applicant_job;index" json:"job"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:'applied'" json:"status"`
	CreatedAt   time.Time         `json:"applied_on"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Association: filled by Preload, never written through.
	Applicant Applicant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Job       Job       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

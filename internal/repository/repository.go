// Package repository defines the storage ports used by the services.
// Implementations must enforce the unique constraints on applicant email,
// user email and the (applicant, job) application pair, reporting a
// violation as ErrConflict.
package repository

import (
	"context"
	"errors"

	"github.com/justsurfingit/jobportal/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)

type ApplicantFilter struct {
	// Search matches name or email, case-insensitive.
	Search string
}

type ApplicationFilter struct {
	// ApplicantEmail scopes the listing to one applicant identity.
	ApplicantEmail string
	Status         models.ApplicationStatus
	JobID          uint
	ApplicantID    uint
}

type ApplicantRepository interface {
	Create(ctx context.Context, applicant *models.Applicant) error
	Update(ctx context.Context, applicant *models.Applicant) error
	GetByID(ctx context.Context, id uint) (*models.Applicant, error)
	GetByEmail(ctx context.Context, email string) (*models.Applicant, error)
	List(ctx context.Context, filter ApplicantFilter) ([]models.Applicant, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	List(ctx context.Context) ([]models.Job, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

// ApplicationRepository returns applications with Applicant and Job loaded.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	Exists(ctx context.Context, applicantID, jobID uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store groups the repositories and runs units of work atomically.
type Store interface {
	Applicants() ApplicantRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	Users() UserRepository
	// Transaction runs fn against a Store bound to one transaction. A non-nil
	// error from fn rolls back every write made through that Store.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

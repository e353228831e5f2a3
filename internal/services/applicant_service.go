package services

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type ApplicantService struct {
	applicants repository.ApplicantRepository
}

func NewApplicantService(store repository.Store) *ApplicantService {
	return &ApplicantService{applicants: store.Applicants()}
}

func (s *ApplicantService) CreateApplicant(ctx context.Context, req dtos.ApplicantRequest) (*models.Applicant, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	applicant := &models.Applicant{Name: req.Name, Email: req.Email, Phone: req.Phone, Resume: req.Resume}
	if err := s.applicants.Create(ctx, applicant); err != nil {
		return nil, applicantWriteError(err, "create applicant")
	}
	return applicant, nil
}

func (s *ApplicantService) GetApplicant(ctx context.Context, id uint) (*models.Applicant, error) {
	applicant, err := s.applicants.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load applicant")
	}
	return applicant, nil
}

func (s *ApplicantService) ListApplicants(ctx context.Context, search string) ([]models.Applicant, error) {
	items, err := s.applicants.List(ctx, repository.ApplicantFilter{Search: search})
	if err != nil {
		return nil, apperr.Internal("list applicants", err)
	}
	return items, nil
}

func (s *ApplicantService) ReplaceApplicant(ctx context.Context, id uint, req dtos.ApplicantRequest) (*models.Applicant, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	applicant, err := s.GetApplicant(ctx, id)
	if err != nil {
		return nil, err
	}
	applicant.Name = req.Name
	applicant.Email = req.Email
	applicant.Phone = req.Phone
	applicant.Resume = req.Resume
	return s.save(ctx, applicant)
}

func (s *ApplicantService) PatchApplicant(ctx context.Context, id uint, req dtos.ApplicantPatch) (*models.Applicant, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}
	applicant, err := s.GetApplicant(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		applicant.Name = *req.Name
	}
	if req.Email != nil {
		applicant.Email = *req.Email
	}
	if req.Phone != nil {
		applicant.Phone = req.Phone
	}
	if req.Resume != nil {
		applicant.Resume = req.Resume
	}
	return s.save(ctx, applicant)
}

// DeleteApplicant cascades to the applicant's applications.
func (s *ApplicantService) DeleteApplicant(ctx context.Context, id uint) error {
	if err := s.applicants.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete applicant")
	}
	return nil
}

func (s *ApplicantService) save(ctx context.Context, applicant *models.Applicant) (*models.Applicant, error) {
	if err := s.applicants.Update(ctx, applicant); err != nil {
		return nil, applicantWriteError(err, "update applicant")
	}
	return applicant, nil
}

func applicantWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return apperr.ErrDuplicateEmail.Wrap(err)
	case errors.Is(err, repository.ErrNotFound):
		return apperr.ErrNotFound
	default:
		return apperr.Internal(op, err)
	}
}

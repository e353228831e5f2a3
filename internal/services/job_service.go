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

type JobService struct {
	jobs repository.JobRepository
}

func NewJobService(store repository.Store) *JobService {
	return &JobService{jobs: store.Jobs()}
}

func (s *JobService) CreateJob(ctx context.Context, req dtos.JobRequest) (*models.Job, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	job := &models.Job{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperr.Internal("create job", err)
	}
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load job")
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list jobs", err)
	}
	return jobs, nil
}

// ReplaceJob is a full update. An omitted is_active resets to active.
func (s *JobService) ReplaceJob(ctx context.Context, id uint, req dtos.JobRequest) (*models.Job, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Title = req.Title
	job.Description = req.Description
	job.IsActive = req.IsActive == nil || *req.IsActive
	return s.save(ctx, job)
}

func (s *JobService) PatchJob(ctx context.Context, id uint, req dtos.JobPatch) (*models.Job, error) {
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}
	return s.save(ctx, job)
}

// DeleteJob cascades to the job's applications.
func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete job")
	}
	return nil
}

func (s *JobService) save(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, "update job")
	}
	return job, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.ErrNotFound
	}
	return apperr.Internal(op, err)
}

package services

import (
	"context"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type DashboardService struct {
	store repository.Store
}

func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Summary counts records for the admin landing page.
func (s *DashboardService) Summary(ctx context.Context) (*dtos.Dashboard, error) {
	applicants, err := s.store.Applicants().Count(ctx)
	if err != nil {
		return nil, apperr.Internal("count applicants", err)
	}
	jobs, err := s.store.Jobs().Count(ctx, false)
	if err != nil {
		return nil, apperr.Internal("count jobs", err)
	}
	active, err := s.store.Jobs().Count(ctx, true)
	if err != nil {
		return nil, apperr.Internal("count active jobs", err)
	}
	byStatus, err := s.store.Applications().CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Internal("count applications", err)
	}
	counts := map[string]int64{
		string(models.StatusApplied):     0,
		string(models.StatusShortlisted): 0,
		string(models.StatusRejected):    0,
	}
	for status, n := range byStatus {
		counts[string(status)] = n
	}
	return &dtos.Dashboard{Applicants: applicants, Jobs: jobs, ActiveJobs: active, Applications: counts}, nil
}

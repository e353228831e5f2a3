package app

import (
	"context"
	"sync/atomic"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

// countingStore counts every business repository call. User lookups are
// excluded: they belong to credential verification.
type countingStore struct {
	repository.Store
	calls *atomic.Int64
}

func newCountingStore(inner repository.Store) countingStore {
	return countingStore{Store: inner, calls: &atomic.Int64{}}
}

func (s countingStore) Applicants() repository.ApplicantRepository {
	return countingApplicants{s.Store.Applicants(), s.calls}
}

func (s countingStore) Jobs() repository.JobRepository {
	return countingJobs{s.Store.Jobs(), s.calls}
}

func (s countingStore) Applications() repository.ApplicationRepository {
	return countingApplications{s.Store.Applications(), s.calls}
}

func (s countingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.calls.Add(1)
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(countingStore{Store: tx, calls: s.calls})
	})
}

type countingApplicants struct {
	inner repository.ApplicantRepository
	calls *atomic.Int64
}

func (r countingApplicants) Create(ctx context.Context, a *models.Applicant) error {
	r.calls.Add(1)
	return r.inner.Create(ctx, a)
}

func (r countingApplicants) Update(ctx context.Context, a *models.Applicant) error {
	r.calls.Add(1)
	return r.inner.Update(ctx, a)
}

func (r countingApplicants) GetByID(ctx context.Context, id uint) (*models.Applicant, error) {
	r.calls.Add(1)
	return r.inner.GetByID(ctx, id)
}

func (r countingApplicants) GetByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	r.calls.Add(1)
	return r.inner.GetByEmail(ctx, email)
}

func (r countingApplicants) List(ctx context.Context, f repository.ApplicantFilter) ([]models.Applicant, error) {
	r.calls.Add(1)
	return r.inner.List(ctx, f)
}

func (r countingApplicants) Delete(ctx context.Context, id uint) error {
	r.calls.Add(1)
	return r.inner.Delete(ctx, id)
}

func (r countingApplicants) Count(ctx context.Context) (int64, error) {
	r.calls.Add(1)
	return r.inner.Count(ctx)
}

type countingJobs struct {
	inner repository.JobRepository
	calls *atomic.Int64
}

func (r countingJobs) Create(ctx context.Context, j *models.Job) error {
	r.calls.Add(1)
	return r.inner.Create(ctx, j)
}

func (r countingJobs) Update(ctx context.Context, j *models.Job) error {
	r.calls.Add(1)
	return r.inner.Update(ctx, j)
}

func (r countingJobs) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	r.calls.Add(1)
	return r.inner.GetByID(ctx, id)
}

func (r countingJobs) List(ctx context.Context) ([]models.Job, error) {
	r.calls.Add(1)
	return r.inner.List(ctx)
}

func (r countingJobs) Delete(ctx context.Context, id uint) error {
	r.calls.Add(1)
	return r.inner.Delete(ctx, id)
}

func (r countingJobs) Count(ctx context.Context, activeOnly bool) (int64, error) {
	r.calls.Add(1)
	return r.inner.Count(ctx, activeOnly)
}

type countingApplications struct {
	inner repository.ApplicationRepository
	calls *atomic.Int64
}

func (r countingApplications) Create(ctx context.Context, a *models.Application) error {
	r.calls.Add(1)
	return r.inner.Create(ctx, a)
}

func (r countingApplications) Exists(ctx context.Context, applicantID, jobID uint) (bool, error) {
	r.calls.Add(1)
	return r.inner.Exists(ctx, applicantID, jobID)
}

func (r countingApplications) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	r.calls.Add(1)
	return r.inner.GetByID(ctx, id)
}

func (r countingApplications) UpdateStatus(ctx context.Context, id uint, s models.ApplicationStatus) (*models.Application, error) {
	r.calls.Add(1)
	return r.inner.UpdateStatus(ctx, id, s)
}

func (r countingApplications) List(ctx context.Context, f repository.ApplicationFilter) ([]models.Application, error) {
	r.calls.Add(1)
	return r.inner.List(ctx, f)
}

func (r countingApplications) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	r.calls.Add(1)
	return r.inner.CountByStatus(ctx)
}

package services

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobportal/internal/metrics"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
	"github.com/justsurfingit/jobportal/internal/repository/memory"
)

type fixture struct {
	store       *memory.Store
	ledger      *ApplicationLedger
	coordinator *SubmissionCoordinator
	metrics     *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := memory.NewStore()
	ledger := NewApplicationLedger(store)
	m := metrics.New()
	return &fixture{
		store:       store,
		ledger:      ledger,
		coordinator: NewSubmissionCoordinator(store, ledger, log, m),
		metrics:     m,
	}
}

func (f *fixture) job(t *testing.T, title string, active bool) *models.Job {
	t.Helper()
	job := &models.Job{Title: title, Description: title + " role", IsActive: active}
	require.NoError(t, f.store.Jobs().Create(context.Background(), job))
	return job
}

func (f *fixture) applicant(t *testing.T, name, email string) *models.Applicant {
	t.Helper()
	applicant := &models.Applicant{Name: name, Email: email}
	require.NoError(t, f.store.Applicants().Create(context.Background(), applicant))
	return applicant
}

func (f *fixture) applicantCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.store.Applicants().Count(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) applications(t *testing.T) []models.Application {
	t.Helper()
	items, err := f.store.Applications().List(context.Background(), repository.ApplicationFilter{})
	require.NoError(t, err)
	return items
}

func ptr[T any](v T) *T { return &v }

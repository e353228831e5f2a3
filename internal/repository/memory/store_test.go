package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

func TestUniqueConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a := &models.Applicant{Name: "A", Email: "a@x.com"}
	require.NoError(t, s.Applicants().Create(ctx, a))
	assert.ErrorIs(t, s.Applicants().Create(ctx, &models.Applicant{Name: "B", Email: "a@x.com"}), repository.ErrConflict)

	job := &models.Job{Title: "T", Description: "D", IsActive: true}
	require.NoError(t, s.Jobs().Create(ctx, job))

	require.NoError(t, s.Applications().Create(ctx, &models.Application{ApplicantID: a.ID, JobID: job.ID}))
	err := s.Applications().Create(ctx, &models.Application{ApplicantID: a.ID, JobID: job.ID})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTransactionRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Applicants().Create(ctx, &models.Applicant{Name: "A", Email: "a@x.com"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := s.Applicants().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.Transaction(ctx, func(tx repository.Store) error {
		return tx.Applicants().Create(ctx, &models.Applicant{Name: "A", Email: "a@x.com"})
	}))
	n, err = s.Applicants().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := &models.Applicant{Name: "A", Email: "a@x.com"}
	require.NoError(t, s.Applicants().Create(ctx, a))
	j1 := &models.Job{Title: "1", Description: "d", IsActive: true}
	j2 := &models.Job{Title: "2", Description: "d", IsActive: true}
	require.NoError(t, s.Jobs().Create(ctx, j1))
	require.NoError(t, s.Jobs().Create(ctx, j2))
	require.NoError(t, s.Applications().Create(ctx, &models.Application{ApplicantID: a.ID, JobID: j1.ID}))
	require.NoError(t, s.Applications().Create(ctx, &models.Application{ApplicantID: a.ID, JobID: j2.ID}))

	require.NoError(t, s.Jobs().Delete(ctx, j1.ID))
	items, err := s.Applications().List(ctx, repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, j2.ID, items[0].JobID)

	require.NoError(t, s.Applicants().Delete(ctx, a.ID))
	items, err = s.Applications().List(ctx, repository.ApplicationFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListNewestFirstWithFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := &models.Applicant{Name: "Ann", Email: "ann@x.com"}
	b := &models.Applicant{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, s.Applicants().Create(ctx, a))
	require.NoError(t, s.Applicants().Create(ctx, b))
	job := &models.Job{Title: "T", Description: "d", IsActive: true}
	require.NoError(t, s.Jobs().Create(ctx, job))
	require.NoError(t, s.Applications().Create(ctx, &models.Application{ApplicantID: a.ID, JobID: job.ID}))
	require.NoError(t, s.Applications().Create(ctx, &models.Application{ApplicantID: b.ID, JobID: job.ID}))

	items, err := s.Applications().List(ctx, repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ApplicantID)
	assert.Equal(t, "bob@x.com", items[0].Applicant.Email)

	items, err = s.Applications().List(ctx, repository.ApplicationFilter{ApplicantEmail: "ann@x.com"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ApplicantID)

	found, err := s.Applicants().List(ctx, repository.ApplicantFilter{Search: "BO"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob", found[0].Name)
}

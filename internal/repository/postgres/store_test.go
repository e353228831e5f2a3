package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), repository.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), repository.ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), repository.ErrConflict)

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, translate(other))
}

func TestApplicationCreateUniqueViolationIsConflict(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO "applications"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_application_applicant_job"})

	err := store.Applications().Create(context.Background(), &models.Application{ApplicantID: 1, JobID: 2})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationExists(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications" WHERE applicant_id = \$1 AND job_id = \$2`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := store.Applications().Exists(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobGetByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	_, err := store.Jobs().GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobCreateWritesInactiveFlag(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO "jobs" \("title","description","is_active","created_at"\)`).
		WithArgs("Backend", "Go services", false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	job := &models.Job{Title: "Backend", Description: "Go services", IsActive: false}
	require.NoError(t, store.Jobs().Create(context.Background(), job))
	assert.Equal(t, uint(7), job.ID)
	assert.False(t, job.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationUpdateStatusMissingRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.Applications().UpdateStatus(context.Background(), 9, models.StatusRejected)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.Transaction(context.Background(), func(repository.Store) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateWritesInactiveFlag(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO "users"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "gone@x.com", "hash", false, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	user := &models.User{Email: "gone@x.com", PasswordHash: "hash", IsActive: false}
	require.NoError(t, store.Users().Create(context.Background(), user))
	assert.False(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationListScopesByEmailInSQL(t *testing.T) {
	store, mock := newMockStore(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`FROM "applications" JOIN applicants ON applicants.id = applications.applicant_id WHERE applicants.email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "applicant_id", "job_id", "status"}).AddRow(1, 3, 4, "applied"))
	mock.ExpectQuery(`SELECT \* FROM "applicants"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(3, "A", "a@x.com"))
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "is_active"}).AddRow(4, "Backend", true))

	items, err := store.Applications().List(context.Background(), repository.ApplicationFilter{ApplicantEmail: "a@x.com"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a@x.com", items[0].Applicant.Email)
	assert.Equal(t, "Backend", items[0].Job.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

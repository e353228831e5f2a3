// Package postgres implements repository.Store on gorm with the postgres driver.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobportal/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Applicants() repository.ApplicantRepository     { return &ApplicantRepository{db: s.db} }
func (s *Store) Jobs() repository.JobRepository                 { return &JobRepository{db: s.db} }
func (s *Store) Applications() repository.ApplicationRepository { return &ApplicationRepository{db: s.db} }
func (s *Store) Users() repository.UserRepository               { return &UserRepository{db: s.db} }

func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps driver errors onto the repository sentinels. The unique
// constraint is the final arbiter of duplicates, so a 23505 from any insert
// or update surfaces as ErrConflict.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case isUniqueViolation(err):
		return repository.ErrConflict
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ repository.Store = (*Store)(nil)

// Package memory is an in-process repository.Store used for local runs and tests.
// It enforces the same unique constraints and cascades as the postgres schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

type tables struct {
	applicants   map[uint]models.Applicant
	jobs         map[uint]models.Job
	applications map[uint]models.Application
	users        map[uint]models.User
	seq          map[string]uint
}

func newTables() *tables {
	return &tables{
		applicants:   make(map[uint]models.Applicant),
		jobs:         make(map[uint]models.Job),
		applications: make(map[uint]models.Application),
		users:        make(map[uint]models.User),
		seq:          make(map[string]uint),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.applicants {
		c.applicants[k] = v
	}
	for k, v := range t.jobs {
		c.jobs[k] = v
	}
	for k, v := range t.applications {
		c.applications[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

func (t *tables) next(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// noLock is used inside a transaction, where the store lock is already held.
type noLock struct{}

func (noLock) Lock()    {}
func (noLock) Unlock()  {}
func (noLock) RLock()   {}
func (noLock) RUnlock() {}

type view struct {
	mu locker
	t  *tables
}

type Store struct {
	mu sync.RWMutex
	t  *tables
}

func NewStore() *Store {
	return &Store{t: newTables()}
}

func (s *Store) view() view { return view{mu: &s.mu, t: s.t} }

func (s *Store) Applicants() repository.ApplicantRepository { return applicantRepo{s.view()} }
func (s *Store) Jobs() repository.JobRepository             { return jobRepo{s.view()} }
func (s *Store) Applications() repository.ApplicationRepository {
	return applicationRepo{s.view()}
}
func (s *Store) Users() repository.UserRepository { return userRepo{s.view()} }

// Transaction serialises against every other store operation and commits
// the working copy only when fn succeeds.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	working := s.t.clone()
	if err := fn(&txStore{t: working}); err != nil {
		return err
	}
	*s.t = *working
	return nil
}

type txStore struct {
	t *tables
}

func (s *txStore) view() view { return view{mu: noLock{}, t: s.t} }

func (s *txStore) Applicants() repository.ApplicantRepository { return applicantRepo{s.view()} }
func (s *txStore) Jobs() repository.JobRepository             { return jobRepo{s.view()} }
func (s *txStore) Applications() repository.ApplicationRepository {
	return applicationRepo{s.view()}
}
func (s *txStore) Users() repository.UserRepository { return userRepo{s.view()} }

// Transaction inside a transaction joins the outer one.
func (s *txStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(s)
}

func now() time.Time { return time.Now().UTC() }

type applicantRepo struct{ view }

func (r applicantRepo) Create(_ context.Context, applicant *models.Applicant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.t.applicants {
		if existing.Email == applicant.Email {
			return repository.ErrConflict
		}
	}
	applicant.ID = r.t.next("applicants")
	if applicant.CreatedAt.IsZero() {
		applicant.CreatedAt = now()
	}
	r.t.applicants[applicant.ID] = *applicant
	return nil
}

func (r applicantRepo) Update(_ context.Context, applicant *models.Applicant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.t.applicants[applicant.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.t.applicants {
		if id != applicant.ID && existing.Email == applicant.Email {
			return repository.ErrConflict
		}
	}
	applicant.CreatedAt = current.CreatedAt
	r.t.applicants[applicant.ID] = *applicant
	return nil
}

func (r applicantRepo) GetByID(_ context.Context, id uint) (*models.Applicant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.t.applicants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r applicantRepo) GetByEmail(_ context.Context, email string) (*models.Applicant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.t.applicants {
		if item.Email == email {
			found := item
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r applicantRepo) List(_ context.Context, filter repository.ApplicantFilter) ([]models.Applicant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	items := make([]models.Applicant, 0, len(r.t.applicants))
	for _, item := range r.t.applicants {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Email), search) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID)
	})
	return items, nil
}

func (r applicantRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.t.applicants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.t.applicants, id)
	for appID, app := range r.t.applications {
		if app.ApplicantID == id {
			delete(r.t.applications, appID)
		}
	}
	return nil
}

func (r applicantRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.t.applicants)), nil
}

type jobRepo struct{ view }

func (r jobRepo) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = r.t.next("jobs")
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now()
	}
	r.t.jobs[job.ID] = *job
	return nil
}

func (r jobRepo) Update(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.t.jobs[job.ID]
	if !ok {
		return repository.ErrNotFound
	}
	job.CreatedAt = current.CreatedAt
	r.t.jobs[job.ID] = *job
	return nil
}

func (r jobRepo) GetByID(_ context.Context, id uint) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.t.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r jobRepo) List(_ context.Context) ([]models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]models.Job, 0, len(r.t.jobs))
	for _, item := range r.t.jobs {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID)
	})
	return items, nil
}

func (r jobRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.t.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.t.jobs, id)
	for appID, app := range r.t.applications {
		if app.JobID == id {
			delete(r.t.applications, appID)
		}
	}
	return nil
}

func (r jobRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, job := range r.t.jobs {
		if !activeOnly || job.IsActive {
			n++
		}
	}
	return n, nil
}

type applicationRepo struct{ view }

func (r applicationRepo) Create(_ context.Context, application *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.t.applicants[application.ApplicantID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.t.jobs[application.JobID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.t.applications {
		if existing.ApplicantID == application.ApplicantID && existing.JobID == application.JobID {
			return repository.ErrConflict
		}
	}
	application.ID = r.t.next("applications")
	ts := now()
	application.CreatedAt = ts
	application.UpdatedAt = ts
	if application.Status == "" {
		application.Status = models.StatusApplied
	}
	stored := *application
	stored.Applicant = models.Applicant{}
	stored.Job = models.Job{}
	r.t.applications[application.ID] = stored
	r.load(application)
	return nil
}

func (r applicationRepo) Exists(_ context.Context, applicantID, jobID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, existing := range r.t.applications {
		if existing.ApplicantID == applicantID && existing.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r applicationRepo) GetByID(_ context.Context, id uint) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.t.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.load(&item)
	return &item, nil
}

func (r applicationRepo) UpdateStatus(_ context.Context, id uint, status models.ApplicationStatus) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.t.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.Status = status
	item.UpdatedAt = now()
	r.t.applications[id] = item
	r.load(&item)
	return &item, nil
}

func (r applicationRepo) List(_ context.Context, filter repository.ApplicationFilter) ([]models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]models.Application, 0, len(r.t.applications))
	for _, item := range r.t.applications {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.JobID != 0 && item.JobID != filter.JobID {
			continue
		}
		if filter.ApplicantID != 0 && item.ApplicantID != filter.ApplicantID {
			continue
		}
		if filter.ApplicantEmail != "" && r.t.applicants[item.ApplicantID].Email != filter.ApplicantEmail {
			continue
		}
		r.load(&item)
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[j].CreatedAt, items[i].ID, items[j].ID)
	})
	return items, nil
}

func (r applicationRepo) CountByStatus(_ context.Context) (map[models.ApplicationStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[models.ApplicationStatus]int64)
	for _, item := range r.t.applications {
		counts[item.Status]++
	}
	return counts, nil
}

// load fills the associations; callers hold the lock.
func (r applicationRepo) load(item *models.Application) {
	item.Applicant = r.t.applicants[item.ApplicantID]
	item.Job = r.t.jobs[item.JobID]
}

type userRepo struct{ view }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.t.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	user.ID = r.t.next("users")
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	r.t.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.t.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.t.users {
		if item.Email == email {
			found := item
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newerFirst(a, b time.Time, aID, bID uint) bool {
	if a.Equal(b) {
		return aID > bID
	}
	return a.After(b)
}

var _ repository.Store = (*Store)(nil)
var _ repository.Store = (*txStore)(nil)

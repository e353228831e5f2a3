package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

var tracer = otel.Tracer("github.com/justsurfingit/jobportal/internal/services")

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ApplicationLedger owns application uniqueness and the status set.
type ApplicationLedger struct {
	store repository.Store
}

func NewApplicationLedger(store repository.Store) *ApplicationLedger {
	return &ApplicationLedger{store: store}
}

// Within returns a ledger bound to the transaction tx.
func (l *ApplicationLedger) Within(tx repository.Store) *ApplicationLedger {
	return &ApplicationLedger{store: tx}
}

// Create records applicantID applying to jobID. The Exists check only gives
// the friendly error early; the unique index decides concurrent races.
func (l *ApplicationLedger) Create(ctx context.Context, applicantID, jobID uint) (_ *models.Application, err error) {
	ctx, span := tracer.Start(ctx, "ApplicationLedger.Create", trace.WithAttributes(
		attribute.Int64("applicant.id", int64(applicantID)),
		attribute.Int64("job.id", int64(jobID)),
	))
	defer func() { endSpan(span, err) }()

	if _, err := activeJob(ctx, l.store.Jobs(), jobID); err != nil {
		return nil, err
	}
	if _, err := l.store.Applicants().GetByID(ctx, applicantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound.Wrap(err)
		}
		return nil, apperr.Internal("load applicant", err)
	}

	exists, err := l.store.Applications().Exists(ctx, applicantID, jobID)
	if err != nil {
		return nil, apperr.Internal("check application", err)
	}
	if exists {
		return nil, apperr.ErrDuplicateApplication
	}

	application := &models.Application{ApplicantID: applicantID, JobID: jobID, Status: models.StatusApplied}
	if err := l.store.Applications().Create(ctx, application); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.ErrDuplicateApplication.Wrap(err)
		}
		return nil, apperr.Internal("create application", err)
	}
	return application, nil
}

// UpdateStatus moves an application to any status in the closed set.
func (l *ApplicationLedger) UpdateStatus(ctx context.Context, id uint, raw string) (_ *models.Application, err error) {
	ctx, span := tracer.Start(ctx, "ApplicationLedger.UpdateStatus", trace.WithAttributes(
		attribute.Int64("application.id", int64(id)),
		attribute.String("status", raw),
	))
	defer func() { endSpan(span, err) }()

	status, ok := models.ParseStatus(raw)
	if !ok {
		return nil, apperr.InvalidStatus(raw)
	}
	application, err := l.store.Applications().UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrApplicationNotFound
		}
		return nil, apperr.Internal("update application status", err)
	}
	return application, nil
}

// List returns the applications visible to identity. Standard identities are
// scoped to their own email inside the query.
func (l *ApplicationLedger) List(ctx context.Context, identity models.Identity, filter repository.ApplicationFilter) (_ []models.Application, err error) {
	ctx, span := tracer.Start(ctx, "ApplicationLedger.List", trace.WithAttributes(
		attribute.String("role", string(identity.Role)),
	))
	defer func() { endSpan(span, err) }()

	filter.ApplicantEmail = ""
	if !identity.Elevated() {
		email := normalizeEmail(identity.Email)
		if email == "" {
			return []models.Application{}, nil
		}
		filter.ApplicantEmail = email
	}
	items, err := l.store.Applications().List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list applications", err)
	}
	return items, nil
}

// activeJob resolves a job that can accept applications.
func activeJob(ctx context.Context, jobs repository.JobRepository, id uint) (*models.Job, error) {
	job, err := jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrJobNotFound
		}
		return nil, apperr.Internal("load job", err)
	}
	if !job.IsActive {
		return nil, apperr.ErrJobInactive
	}
	return job, nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/metrics"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
)

// SubmissionCoordinator runs the public apply flow: upsert the applicant by
// email, then record the application, all in one transaction.
type SubmissionCoordinator struct {
	store   repository.Store
	ledger  *ApplicationLedger
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewSubmissionCoordinator(store repository.Store, ledger *ApplicationLedger, log logrus.FieldLogger, m *metrics.Metrics) *SubmissionCoordinator {
	return &SubmissionCoordinator{store: store, ledger: ledger, log: log, metrics: m}
}

func (c *SubmissionCoordinator) Submit(ctx context.Context, req dtos.ApplyRequest) (_ *dtos.ApplicationResponse, err error) {
	ctx, span := tracer.Start(ctx, "SubmissionCoordinator.Submit")
	defer func() {
		c.metrics.Submission(submissionOutcome(err))
		endSpan(span, err)
	}()

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validateInput(req); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("job.id", int64(*req.Job)))

	var application *models.Application
	err = c.store.Transaction(ctx, func(tx repository.Store) error {
		job, err := activeJob(ctx, tx.Jobs(), *req.Job)
		if err != nil {
			return err
		}
		applicant, err := upsertApplicant(ctx, tx.Applicants(), req)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int64("applicant.id", int64(applicant.ID)))
		application, err = c.ledger.Within(tx).Create(ctx, applicant.ID, job.ID)
		return err
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindInternal) {
			c.log.WithError(err).Error("application submission failed")
		}
		return nil, apperr.From(err)
	}

	c.log.WithFields(logrus.Fields{
		"application_id": application.ID,
		"applicant_id":   application.ApplicantID,
		"job_id":         application.JobID,
	}).Info("application submitted")
	return dtos.NewApplicationResponse(application), nil
}

// upsertApplicant overwrites the supplied fields of an existing applicant or
// creates a new one.
func upsertApplicant(ctx context.Context, applicants repository.ApplicantRepository, req dtos.ApplyRequest) (*models.Applicant, error) {
	existing, err := applicants.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if req.Name != "" {
			existing.Name = req.Name
		}
		if req.Phone != nil {
			existing.Phone = req.Phone
		}
		if req.Resume != nil {
			existing.Resume = req.Resume
		}
		if err := applicants.Update(ctx, existing); err != nil {
			return nil, apperr.Internal("update applicant", err)
		}
		return existing, nil
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, apperr.Internal("load applicant", err)
	}

	if req.Name == "" {
		return nil, apperr.Required("name")
	}
	applicant := &models.Applicant{Name: req.Name, Email: req.Email, Phone: req.Phone, Resume: req.Resume}
	if err := applicants.Create(ctx, applicant); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.ErrDuplicateEmail.Wrap(err)
		}
		return nil, apperr.Internal("create applicant", err)
	}
	return applicant, nil
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, apperr.ErrDuplicateApplication):
		return "duplicate"
	case errors.Is(err, apperr.ErrJobInactive), errors.Is(err, apperr.ErrJobNotFound):
		return "job_unavailable"
	case apperr.IsKind(err, apperr.KindInternal):
		return "error"
	default:
		return "invalid"
	}
}

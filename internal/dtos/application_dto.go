package dtos

import (
	"time"

	"github.com/justsurfingit/jobportal/internal/models"
)

// ApplyRequest is the public submission. Job is a pointer so a missing
// value can be told apart from zero.
type ApplyRequest struct {
	Email  string  `json:"email" form:"email" validate:"required,email,max=254"`
	Name   string  `json:"name" form:"name" validate:"max=100"`
	Phone  *string `json:"phone" form:"phone" validate:"omitempty,max=15"`
	Resume *string `json:"resume" form:"resume"`
	Job    *uint   `json:"job" form:"job" validate:"required"`
}

type StatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// ApplicationResponse carries the applicant and job summaries so clients
// need no follow-up lookup.
type ApplicationResponse struct {
	ID               uint                     `json:"id"`
	Applicant        uint                     `json:"applicant"`
	Job              uint                     `json:"job"`
	Status           models.ApplicationStatus `json:"status"`
	AppliedOn        time.Time                `json:"applied_on"`
	UpdatedAt        time.Time                `json:"updated_at"`
	ApplicantDetails ApplicantSummary         `json:"applicant_details"`
	JobDetails       JobSummary               `json:"job_details"`
}

// NewApplicationResponse expects the Applicant and Job associations loaded.
func NewApplicationResponse(a *models.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:        a.ID,
		Applicant: a.ApplicantID,
		Job:       a.JobID,
		Status:    a.Status,
		AppliedOn: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		ApplicantDetails: ApplicantSummary{
			Name:  a.Applicant.Name,
			Email: a.Applicant.Email,
			Phone: a.Applicant.Phone,
		},
		JobDetails: JobSummary{
			Title:       a.Job.Title,
			Description: a.Job.Description,
			IsActive:    a.Job.IsActive,
		},
	}
}

func NewApplicationList(items []models.Application) []*ApplicationResponse {
	out := make([]*ApplicationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewApplicationResponse(&items[i]))
	}
	return out
}

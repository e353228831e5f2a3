package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/middleware"
	"github.com/justsurfingit/jobportal/internal/models"
	"github.com/justsurfingit/jobportal/internal/repository"
	"github.com/justsurfingit/jobportal/internal/services"
)

type ApplicationHandler struct {
	Ledger      *services.ApplicationLedger
	Coordinator *services.SubmissionCoordinator
	log         logrus.FieldLogger
}

func NewApplicationHandler(l *services.ApplicationLedger, sc *services.SubmissionCoordinator, log logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{Ledger: l, Coordinator: sc, log: log}
}

// Apply is the public POST /api/apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dtos.ApplyRequest
	if !bind(c, h.log, &req) {
		return
	}
	application, err := h.Coordinator.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// ListApplications is GET /api/applications?status=&job=&applicant=
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, h.log, apperr.ErrNotAuthenticated)
		return
	}
	filter, err := applicationFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	items, err := h.Ledger.List(c.Request.Context(), identity, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewApplicationList(items))
}

// UpdateStatus is PATCH /api/applications/:id/status, elevated only.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	var req dtos.StatusRequest
	if !bind(c, h.log, &req) {
		return
	}
	application, err := h.Ledger.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewApplicationResponse(application))
}

func applicationFilter(c *gin.Context) (repository.ApplicationFilter, error) {
	var filter repository.ApplicationFilter
	fields := map[string][]string{}
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			return filter, apperr.InvalidStatus(raw)
		}
		filter.Status = status
	}
	for _, key := range []string{"job", "applicant"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fields[key] = []string{"Enter a number."}
			continue
		}
		if key == "job" {
			filter.JobID = uint(id)
		} else {
			filter.ApplicantID = uint(id)
		}
	}
	if len(fields) > 0 {
		return filter, apperr.Validation(fields)
	}
	return filter, nil
}

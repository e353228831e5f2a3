package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
	log        logrus.FieldLogger
}

func NewJobHandler(j *services.JobService, log logrus.FieldLogger) *JobHandler {
	return &JobHandler{JobService: j, log: log}
}

// ListJobs is GET /api/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob is GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	job, err := h.JobService.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob is POST /api/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if !bind(c, h.log, &req) {
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ReplaceJob is PUT /api/jobs/:id
func (h *JobHandler) ReplaceJob(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	var req dtos.JobRequest
	if !bind(c, h.log, &req) {
		return
	}
	job, err := h.JobService.ReplaceJob(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// PatchJob is PATCH /api/jobs/:id
func (h *JobHandler) PatchJob(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	var req dtos.JobPatch
	if !bind(c, h.log, &req) {
		return
	}
	job, err := h.JobService.PatchJob(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob is DELETE /api/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	if err := h.JobService.DeleteJob(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/services"
)

type ApplicantHandler struct {
	ApplicantService *services.ApplicantService
	log              logrus.FieldLogger
}

func NewApplicantHandler(a *services.ApplicantService, log logrus.FieldLogger) *ApplicantHandler {
	return &ApplicantHandler{ApplicantService: a, log: log}
}

// ListApplicants is GET /api/applicants?search=
func (h *ApplicantHandler) ListApplicants(c *gin.Context) {
	items, err := h.ApplicantService.ListApplicants(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ApplicantHandler) GetApplicant(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	applicant, err := h.ApplicantService.GetApplicant(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, applicant)
}

// CreateApplicant is the public POST /api/applicants.
func (h *ApplicantHandler) CreateApplicant(c *gin.Context) {
	var req dtos.ApplicantRequest
	if !bind(c, h.log, &req) {
		return
	}
	applicant, err := h.ApplicantService.CreateApplicant(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, applicant)
}

func (h *ApplicantHandler) ReplaceApplicant(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	var req dtos.ApplicantRequest
	if !bind(c, h.log, &req) {
		return
	}
	applicant, err := h.ApplicantService.ReplaceApplicant(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, applicant)
}

func (h *ApplicantHandler) PatchApplicant(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	var req dtos.ApplicantPatch
	if !bind(c, h.log, &req) {
		return
	}
	applicant, err := h.ApplicantService.PatchApplicant(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, applicant)
}

func (h *ApplicantHandler) DeleteApplicant(c *gin.Context) {
	id, ok := pathID(c, h.log)
	if !ok {
		return
	}
	if err := h.ApplicantService.DeleteApplicant(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/dtos"
	"github.com/justsurfingit/jobportal/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
	log         logrus.FieldLogger
}

func NewAuthHandler(a *services.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{AuthService: a, log: log}
}

// ObtainToken is POST /api/token/
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req dtos.TokenRequest
	if !bind(c, h.log, &req) {
		return
	}
	pair, err := h.AuthService.ObtainPair(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// RefreshToken is POST /api/token/refresh/
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dtos.RefreshRequest
	if !bind(c, h.log, &req) {
		return
	}
	token, err := h.AuthService.Refresh(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

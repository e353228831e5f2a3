package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/apperr"
	"github.com/justsurfingit/jobportal/internal/middleware"
	"github.com/justsurfingit/jobportal/internal/services"
)

const adminHome = "/admin/"

// AdminHandler serves the session-based admin surface.
type AdminHandler struct {
	AuthService      *services.AuthService
	DashboardService *services.DashboardService
	log              logrus.FieldLogger
}

func NewAdminHandler(a *services.AuthService, d *services.DashboardService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{AuthService: a, DashboardService: d, log: log}
}

// LoginPage is GET /admin/login/
func (h *AdminHandler) LoginPage(c *gin.Context) {
	c.String(http.StatusOK, "POST email, password and next to %s to sign in.\n", middleware.LoginPath)
}

// Login is POST /admin/login/. It sets the session cookie and redirects to next.
func (h *AdminHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	token, expires, err := h.AuthService.StartSession(c.Request.Context(), email, password)
	if err != nil {
		if apperr.IsKind(err, apperr.KindAuthentication) {
			c.String(http.StatusUnauthorized, "Please enter the correct email and password for a staff account.\n")
			return
		}
		respondError(c, h.log, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(time.Until(expires).Seconds()), "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
}

// Logout is POST /admin/logout/
func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Dashboard is GET /admin/
func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.DashboardService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AccountsLogin is GET /accounts/login/
func (h *AdminHandler) AccountsLogin(c *gin.Context) {
	target := middleware.LoginPath
	if next := c.Query("next"); next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	c.Redirect(http.StatusFound, target)
}

// safeNext allows only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return adminHome
	}
	return next
}

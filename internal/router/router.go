// Package router assembles the gin engine: middleware order and routes.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/handlers"
	"github.com/justsurfingit/jobportal/internal/logging"
	"github.com/justsurfingit/jobportal/internal/metrics"
	"github.com/justsurfingit/jobportal/internal/middleware"
)

type Deps struct {
	Log            logrus.FieldLogger
	Metrics        *metrics.Metrics
	Gate           *middleware.Gate
	ApplyLimiter   middleware.Limiter
	AllowedOrigins []string
	StaticDir      string
	RequestTimeout time.Duration

	Jobs         *handlers.JobHandler
	Applicants   *handlers.ApplicantHandler
	Applications *handlers.ApplicationHandler
	Auth         *handlers.AuthHandler
	Admin        *handlers.AdminHandler
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false

	r.Use(gin.Recovery())
	r.Use(logging.RequestID())
	r.Use(logging.AccessLog(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))
	if d.RequestTimeout > 0 {
		r.Use(requestTimeout(d.RequestTimeout))
	}
	// Everything below runs only for requests the gate forwards.
	r.Use(d.Gate.Middleware())

	r.GET("/healthz", handlers.HealthCheck)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if d.StaticDir != "" {
		r.Static("/static", d.StaticDir)
	}

	r.GET("/admin/login/", d.Admin.LoginPage)
	r.POST("/admin/login/", d.Admin.Login)
	r.POST("/admin/logout/", d.Admin.Logout)
	r.GET("/admin/", middleware.RequireElevated(), d.Admin.Dashboard)
	r.GET("/accounts/login/", d.Admin.AccountsLogin)

	api := r.Group("/api")
	handle(api, http.MethodPost, "/token", d.Auth.ObtainToken)
	handle(api, http.MethodPost, "/token/refresh", d.Auth.RefreshToken)

	handle(api, http.MethodPost, "/apply", middleware.Throttle(d.ApplyLimiter, "apply", d.Log), d.Applications.Apply)
	handle(api, http.MethodPost, "/applicants", d.Applicants.CreateApplicant)

	authed := api.Group("", middleware.RequireIdentity())
	handle(authed, http.MethodGet, "/applicants", d.Applicants.ListApplicants)
	handle(authed, http.MethodGet, "/applicants/:id", d.Applicants.GetApplicant)
	handle(authed, http.MethodPut, "/applicants/:id", d.Applicants.ReplaceApplicant)
	handle(authed, http.MethodPatch, "/applicants/:id", d.Applicants.PatchApplicant)
	handle(authed, http.MethodDelete, "/applicants/:id", d.Applicants.DeleteApplicant)

	handle(authed, http.MethodGet, "/jobs", d.Jobs.ListJobs)
	handle(authed, http.MethodGet, "/jobs/:id", d.Jobs.GetJob)
	handle(authed, http.MethodGet, "/applications", d.Applications.ListApplications)

	elevated := api.Group("", middleware.RequireElevated())
	handle(elevated, http.MethodPost, "/jobs", d.Jobs.CreateJob)
	handle(elevated, http.MethodPut, "/jobs/:id", d.Jobs.ReplaceJob)
	handle(elevated, http.MethodPatch, "/jobs/:id", d.Jobs.PatchJob)
	handle(elevated, http.MethodDelete, "/jobs/:id", d.Jobs.DeleteJob)
	handle(elevated, http.MethodPatch, "/applications/:id/status", d.Applications.UpdateStatus)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})
	return r
}

// handle registers path with and without the trailing slash.
func handle(g *gin.RouterGroup, method, path string, chain ...gin.HandlerFunc) {
	g.Handle(method, path, chain...)
	g.Handle(method, path+"/", chain...)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", logging.RequestIDHeader}
	cfg.ExposeHeaders = []string{logging.RequestIDHeader}
	return cfg
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

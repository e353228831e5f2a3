// Package app wires the stores, services and handlers into one engine.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/jobportal/internal/auth"
	"github.com/justsurfingit/jobportal/internal/config"
	"github.com/justsurfingit/jobportal/internal/handlers"
	"github.com/justsurfingit/jobportal/internal/metrics"
	"github.com/justsurfingit/jobportal/internal/middleware"
	"github.com/justsurfingit/jobportal/internal/repository"
	"github.com/justsurfingit/jobportal/internal/router"
	"github.com/justsurfingit/jobportal/internal/services"
)

type App struct {
	Engine  *gin.Engine
	Auth    *services.AuthService
	Tokens  *auth.TokenManager
	Metrics *metrics.Metrics
}

func New(cfg *config.Config, store repository.Store, limiter middleware.Limiter, log logrus.FieldLogger) (*App, error) {
	policy, err := middleware.NewPolicy(cfg.PublicPaths)
	if err != nil {
		return nil, fmt.Errorf("compile public paths: %w", err)
	}
	m := metrics.New()

	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		SessionTTL: cfg.SessionTTL,
	})
	verifier := auth.NewVerifier(tokens, store.Users())

	ledger := services.NewApplicationLedger(store)
	coordinator := services.NewSubmissionCoordinator(store, ledger, log, m)
	authService := services.NewAuthService(store, tokens, verifier, log)

	engine := router.New(router.Deps{
		Log:            log,
		Metrics:        m,
		Gate:           middleware.NewGate(policy, verifier, log, m),
		ApplyLimiter:   limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.RequestTimeout,
		Jobs:           handlers.NewJobHandler(services.NewJobService(store), log),
		Applicants:     handlers.NewApplicantHandler(services.NewApplicantService(store), log),
		Applications:   handlers.NewApplicationHandler(ledger, coordinator, log),
		Auth:           handlers.NewAuthHandler(authService, log),
		Admin:          handlers.NewAdminHandler(authService, services.NewDashboardService(store), log),
	})
	return &App{Engine: engine, Auth: authService, Tokens: tokens, Metrics: m}, nil
}

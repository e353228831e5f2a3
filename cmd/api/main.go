package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/justsurfingit/jobportal/internal/app"
	"github.com/justsurfingit/jobportal/internal/config"
	"github.com/justsurfingit/jobportal/internal/database"
	"github.com/justsurfingit/jobportal/internal/logging"
	"github.com/justsurfingit/jobportal/internal/middleware"
	"github.com/justsurfingit/jobportal/internal/repository"
	"github.com/justsurfingit/jobportal/internal/repository/memory"
	"github.com/justsurfingit/jobportal/internal/repository/postgres"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("load configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	limiter := applyLimiter(ctx, cfg, log)

	a, err := app.New(cfg, store, limiter, log)
	if err != nil {
		log.WithError(err).Fatal("build application")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.Engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (repository.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using the in-memory store")
		return memory.NewStore(), nil
	}
	db, err := database.Connect(ctx, database.Config{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, log)
	if err != nil {
		return nil, err
	}
	return postgres.NewStore(db), nil
}

func applyLimiter(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) middleware.Limiter {
	if cfg.RedisURL == "" {
		return middleware.NewMemoryLimiter(cfg.ApplyRatePerMinute)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, falling back to in-process rate limiting")
		return middleware.NewMemoryLimiter(cfg.ApplyRatePerMinute)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, falling back to in-process rate limiting")
		_ = client.Close()
		return middleware.NewMemoryLimiter(cfg.ApplyRatePerMinute)
	}
	log.Info("apply rate limiting backed by redis")
	return middleware.NewRedisLimiter(client, cfg.ApplyRatePerMinute, time.Minute)
}

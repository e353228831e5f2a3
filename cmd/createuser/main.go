// Command createuser adds a portal account to the configured database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/justsurfingit/jobportal/internal/database"
	"github.com/justsurfingit/jobportal/internal/logging"
	"github.com/justsurfingit/jobportal/internal/repository/postgres"
	"github.com/justsurfingit/jobportal/internal/services"
)

type env struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	email := pflag.String("email", "", "account email")
	password := pflag.String("password", "", "account password")
	staff := pflag.Bool("staff", false, "grant the elevated role")
	pflag.Parse()

	if err := run(*envFile, *email, *password, *staff); err != nil {
		fmt.Fprintln(os.Stderr, "createuser:", err)
		os.Exit(1)
	}
}

func run(envFile, email, password string, staff bool) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	var e env
	if err := envdecode.StrictDecode(&e); err != nil {
		return err
	}
	log := logging.New(e.LogLevel, "text")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	db, err := database.Connect(ctx, database.Config{DSN: e.DatabaseURL, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, log)
	if err != nil {
		return err
	}

	// Token signing is not needed to create a user.
	svc := services.NewAuthService(postgres.NewStore(db), nil, nil, log)
	user, err := svc.CreateUser(ctx, email, password, staff)
	if err != nil {
		return err
	}
	log.WithField("user_id", user.ID).WithField("staff", user.IsStaff).Info("user created")
	return nil
}

package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"pet-boarding-backend/internal/adapters/auth/jwtauth"
	"pet-boarding-backend/internal/adapters/notify/lognotifier"
	"pet-boarding-backend/internal/adapters/notify/webhook"
	"pet-boarding-backend/internal/adapters/storage/postgres"
	"pet-boarding-backend/internal/config"
	"pet-boarding-backend/internal/domain/users"
	"pet-boarding-backend/internal/platform/logger"
	"pet-boarding-backend/internal/ports/auth"
	"pet-boarding-backend/internal/ports/notify"
	"pet-boarding-backend/internal/router"
)

func main() {
	// .env es opcional; en producción las vars vienen del entorno.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	appLog := logger.NewFromEnv()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		opened, err := postgres.OpenTimeout(cfg.DatabaseURL, cfg.DBTimeout)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer opened.Close()
		db = opened
		appLog.Info("conectado a postgres", nil)
	} else {
		appLog.Warn("sin DB_DSN: usando repos in-memory (modo dev)", nil)
	}

	var verifier auth.Verifier
	var tokens *jwtauth.TokenSource
	if cfg.JWTSecret != "" {
		tokens = jwtauth.New(cfg.JWTSecret, cfg.TokenExpiry)
		verifier = tokens
	} else {
		appLog.Warn("sin JWT_SECRET: auth en modo dev (X-Debug-User-ID)", nil)
	}

	var notifier notify.Notifier = lognotifier.New(appLog)
	if cfg.NotifyWebhookURL != "" {
		wh, err := webhook.New(cfg.NotifyWebhookURL, cfg.NotifyTimeout)
		if err != nil {
			log.Fatalf("webhook: %v", err)
		}
		notifier = wh
	}

	var issuer users.TokenIssuer
	if tokens != nil {
		issuer = tokens
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:       verifier,
		TokenIssuer:        issuer,
		Notifier:           notifier,
		Logger:             appLog,
		DB:                 db,
		EnforcePermissions: cfg.JWTSecret != "",
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": addr, "env": cfg.Environment})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"datahealth/adapters/postgres"
	"datahealth/app"
	"datahealth/internal/api"
	"datahealth/internal/auth"
	"datahealth/internal/config"
	"datahealth/internal/logger"
	"datahealth/internal/migration"
	"datahealth/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load configuration")
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize logger")
	}
	log := logger.Component("Main")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	files := storage.NewLocalFileStorage(cfg.Storage.UploadDir)
	accounts := app.NewAccountService(
		postgres.NewUserRepository(db),
		auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration),
	)
	quality := app.NewQualityService(
		postgres.NewDatasetRepository(db),
		postgres.NewReportRepository(db),
		files,
		cfg.Server.AnalysisTimeout,
	)

	server := api.NewServer(cfg.Server, cfg.Storage, accounts, quality)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}

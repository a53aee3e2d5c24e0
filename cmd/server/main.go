// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/festy23/eventhub/internal/app"
	"github.com/festy23/eventhub/internal/auth"
	appConfig "github.com/festy23/eventhub/internal/config"
	"github.com/festy23/eventhub/internal/database/database"
	"github.com/festy23/eventhub/internal/database/migrate"
	"github.com/festy23/eventhub/internal/mail"
	"github.com/festy23/eventhub/internal/storage"
	"github.com/festy23/eventhub/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sugar, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("server stopped with error", "error", err)
	}
}

func run(cfg appConfig.Config, logger *zap.SugaredLogger) error {
	gin.SetMode(cfg.GinMode)

	authCfg, err := auth.LoadConfig(appConfig.GetEnv("AUTH_CONFIG_PATH", ""))
	if err != nil {
		return err
	}

	db, err := database.New(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warnw("failed to close database", "error", err)
		}
	}()

	version, err := migrate.Migrate(db)
	if err != nil {
		return err
	}
	logger.Infow("migrations applied", "path", migrate.GetMigrationsPath(), "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		return err
	}

	application, err := app.New(app.Dependencies{
		DB:       db,
		Config:   cfg,
		Auth:     authCfg,
		Storage:  store,
		Provider: mail.NewProvider(cfg.Mail, logger),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.EnsureAdmin(ctx); err != nil {
		return err
	}

	srv := cfg.Server.NewHTTPServer(application.Router)

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "addr", srv.Addr, "storage", cfg.Storage.Backend, "mail_enabled", cfg.Mail.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	// Closing the broker first ends open SSE streams so Shutdown is not held up by them.
	application.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

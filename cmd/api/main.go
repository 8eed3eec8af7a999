// @title Event Planner API
// @version 1.0
// @description REST API for events and their attendees, vendors, sponsors, items and analytics.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventplanner/config"
	_ "eventplanner/docs"
	"eventplanner/internal/adapters/auth"
	"eventplanner/internal/adapters/email"
	httpdelivery "eventplanner/internal/delivery/http"
	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("database ready")

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:           cfg.Email.Provider,
		FromAddress:        cfg.Email.FromAddress,
		FromName:           cfg.Email.FromName,
		AWSRegion:          cfg.Email.AWSRegion,
		AWSAccessKeyID:     cfg.Email.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.Email.AWSSecretAccessKey,
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("email templates: %w", err)
	}

	repos := postgres.NewRepositories(db)
	emailService := services.NewEmailService(mailer, renderer, logger)
	userService := services.NewUserService(postgres.NewUserRepository(db), auth.NewBcryptHasher(cfg.BcryptCost), emailService, logger, cfg.RequestTimeout)
	eventService := services.NewEventService(postgres.NewTransactor(db), repos, cfg.RequestTimeout)
	analyticsService := services.NewAnalyticsService(repos.Analytics, cfg.RequestTimeout)

	handler := httpdelivery.NewRouter(logger, cfg.CORSAllowedOrigins, httpdelivery.Controllers{
		Events:    controllers.NewEventController(logger, eventService),
		Analytics: controllers.NewAnalyticsController(logger, analyticsService),
		Users:     controllers.NewUserController(logger, userService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

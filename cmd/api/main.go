package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studioworks/internal/backend"
	"studioworks/internal/config"
	"studioworks/internal/database"
	"studioworks/internal/logging"
	"studioworks/internal/services"
	"studioworks/internal/util"
	"studioworks/internal/web"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Validate critical configuration
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.Bool("debug", cfg.App.Debug),
		zap.String("host", cfg.App.Host),
		zap.String("port", cfg.App.Port))

	if err := database.Init(&cfg.Database, logger.Named("database")); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		logger.Info("closing database connections")
		if err := database.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()

	bucket, err := backend.NewDiskBucket(cfg.Storage.Bucket, cfg.Storage.Root, cfg.Storage.PublicBaseURL,
		cfg.Storage.MaxUploadBytes, logger.Named("storage"))
	if err != nil {
		return fmt.Errorf("failed to open storage bucket: %w", err)
	}

	tokens := util.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL())
	client := backend.NewClient(database.GetDB(), tokens, bucket, logger.Named("backend"))
	svc := services.New(client, cfg, logger)
	defer svc.Contact.Wait()
	logger.Info("contact notifications", zap.Bool("email_enabled", svc.Email.IsEnabled()))

	server, err := web.NewServer(cfg, svc, bucket.Root(), logger.Named("web"))
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server.Start(ctx)
	defer server.Stop()

	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("starting graceful shutdown", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error during graceful shutdown", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("shutdown timeout exceeded, forcing close")
			_ = httpServer.Close()
		}
	}

	logger.Info("server shutdown complete")
	return nil
}

// validateConfig rejects the shipped default secrets outside debug mode.
func validateConfig(cfg *config.Config) error {
	if cfg.App.Debug {
		return nil
	}
	if cfg.Auth.SecretKey == "" || cfg.Auth.SecretKey == "your-secret-key-change-in-production" {
		return fmt.Errorf("SECRET_KEY must be set and changed from default value")
	}
	if len(cfg.Auth.SecretKey) < 32 {
		return fmt.Errorf("SECRET_KEY must be at least 32 characters for security")
	}
	if cfg.Auth.SessionSecret == "dev-insecure-session-secret-change-me" {
		return fmt.Errorf("SESSION_SECRET must be changed from default value")
	}
	if cfg.App.Port == "" {
		return fmt.Errorf("PORT must be set")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	api "vighnaharta-backend/internal/api/grpc"
	httpapi "vighnaharta-backend/internal/api/http"
	"vighnaharta-backend/internal/bootstrap"
	"vighnaharta-backend/internal/config"
	"vighnaharta-backend/internal/jobs"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
	"vighnaharta-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Vighnaharta backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "store", cfg.Store.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Store.Close()

	handlers := &httpapi.Handlers{
		Participants: app.Participants,
		Moderation:   app.Moderation,
		Messages:     app.Messages,
		Auth:         app.Auth,
		Organizers:   app.Organizers,
		MaxPassBytes: cfg.MaxPassBytes(),
	}
	router := httpapi.NewRouter(handlers, app.Images, cfg.Storage.PublicPrefix)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	// Optional gRPC health side port
	grpcDone := make(chan error, 1)
	if addr := cfg.GetGRPCAddress(); addr != "" {
		health, err := api.NewHealthServer(addr, app.Store, timeouts.PollInterval)
		if err != nil {
			logger.Error("Failed to start gRPC health server", "error", err)
			log.Fatalf("Failed to start gRPC health server: %v", err)
		}
		go func() { grpcDone <- health.Serve(ctx) }()
	} else {
		grpcDone <- nil
	}

	if cfg.Scheduler.Enabled {
		runner := jobs.NewJobRunner(app.Store.Participants(), app.Images, &jobs.Services{
			Email:      app.Email,
			Moderation: app.Moderation,
		}, cfg)
		cronScheduler, err := scheduler.NewScheduler(runner)
		if err != nil {
			logger.Error("Failed to configure scheduler", "error", err)
			log.Fatalf("Failed to configure scheduler: %v", err)
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	if err := <-grpcDone; err != nil {
		logger.Error("gRPC health server failed", "error", err)
	}
	logger.Info("Server stopped")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vighnaharta-backend/internal/bootstrap"
	"vighnaharta-backend/internal/config"
	"vighnaharta-backend/internal/jobs"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository/bolt"
	"vighnaharta-backend/internal/scheduler"
)

// The cronjob runner opens the store itself. With the default bolt driver the
// database file is locked by a running server, so either stop the server, run
// the jobs inside it (scheduler.enabled: true), or use the sqlite or postgres
// driver for both processes.
func main() {
	os.Exit(run())
}

func run() int {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-orphan-passes', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Vighnaharta cronjob runner...", "log_level", cfg.Log.Level)
	if bootstrap.ExclusiveStore(cfg.Store.Driver) {
		logger.Warn("Store driver allows a single process; the server must not be running",
			"driver", cfg.Store.Driver, "path", cfg.Store.Path)
	}

	app, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		if errors.Is(err, bolt.ErrLocked) {
			logger.Error("Store is held by another process. Enable scheduler in the server config or switch to a shared SQL driver", "error", err)
		} else {
			logger.Error("Failed to initialize application", "error", err)
		}
		return 1
	}
	defer app.Store.Close()

	jobRunner := jobs.NewJobRunner(app.Store.Participants(), app.Images, &jobs.Services{
		Email:      app.Email,
		Moderation: app.Moderation,
	}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			return 1
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return 0
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to configure scheduler", "error", err)
		return 1
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	return 0
}

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "sweep-orphan-passes":
		jobRunner.SweepOrphanPasses()
	case "send-pending-digest":
		jobRunner.SendPendingDigest()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sweep-orphan-passes\n")
		fmt.Printf("  - send-pending-digest\n")
		fmt.Printf("  - all\n")
		return false
	}
	return true
}

package jobs

import (
	"time"

	"vighnaharta-backend/internal/config"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository"
	"vighnaharta-backend/internal/service"
	"vighnaharta-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	participants repository.ParticipantRepository
	images       storage.StorageInterface
	services     *Services
	config       *config.Config
	now          func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email      service.EmailService
	Moderation service.ModerationService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(participants repository.ParticipantRepository, images storage.StorageInterface, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		participants: participants,
		images:       images,
		services:     services,
		config:       cfg,
		now:          time.Now,
	}
}

// Config exposes the configuration the jobs were built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SweepOrphanPasses()
	jr.SendPendingDigest()
}

package jobs

import (
	"context"
	"fmt"

	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
)

// SweepOrphanPasses removes stored pass images that no participant points at
// and that are older than the configured grace period.
func (jr *JobRunner) SweepOrphanPasses() {
	jr.runWithRecovery("SweepOrphanPasses", func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.StoreIO)
		defer cancel()

		removed, err := jr.sweepOrphanPasses(ctx)
		if err != nil {
			logger.Error("Orphan pass sweep failed", "error", err)
			return
		}
		logger.Info("Orphan pass sweep finished", "removed", removed)
	})
}

func (jr *JobRunner) sweepOrphanPasses(ctx context.Context) (int, error) {
	participants, err := jr.participants.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list participants: %w", err)
	}
	referenced := make(map[string]bool, len(participants))
	for _, p := range participants {
		if key, ok := jr.images.KeyFromURL(p.ImageURL); ok {
			referenced[key] = true
		}
	}

	files, err := jr.images.ListFiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pass images: %w", err)
	}

	cutoff := jr.now().Add(-jr.config.OrphanGrace())
	removed := 0
	for _, f := range files {
		if referenced[f.Key] || f.ModTime.After(cutoff) {
			continue
		}
		if err := jr.images.DeleteFile(ctx, f.Key); err != nil {
			logger.Warn("Failed to delete orphan pass", "key", f.Key, "error", err)
			continue
		}
		logger.Debug("Deleted orphan pass", "key", f.Key, "modified", f.ModTime)
		removed++
	}
	return removed, nil
}

// SendPendingDigest emails the admin a summary of registrations awaiting
// moderation. Nothing is sent when the queue is empty.
func (jr *JobRunner) SendPendingDigest() {
	jr.runWithRecovery("SendPendingDigest", func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Notify)
		defer cancel()

		sent, err := jr.sendPendingDigest(ctx)
		if err != nil {
			logger.Error("Pending digest failed", "error", err)
			return
		}
		logger.Info("Pending digest finished", "pending", sent)
	})
}

func (jr *JobRunner) sendPendingDigest(ctx context.Context) (int, error) {
	adminEmail := jr.config.Admin.Email
	if adminEmail == "" {
		logger.Debug("No admin email configured, skipping pending digest")
		return 0, nil
	}

	pending, err := jr.services.Moderation.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := jr.services.Email.SendPendingDigest(ctx, adminEmail, pending); err != nil {
		return 0, fmt.Errorf("send digest: %w", err)
	}
	return len(pending), nil
}

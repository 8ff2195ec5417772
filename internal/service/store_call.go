package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
	"vighnaharta-backend/internal/repository"
	"vighnaharta-backend/internal/storage"
)

// storeContext bounds a single store round trip.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeouts.StoreIO)
}

// decodeDataURL returns the payload of a base64 data URL.
func decodeDataURL(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, domain.NewValidationError("imageData must be a base64 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.NewValidationError("imageData is not valid base64")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("imageData is empty")
	}
	return data, nil
}

func findByID(list []domain.Participant, id string) (*domain.Participant, bool) {
	for i := range list {
		if list[i].ID == id {
			p := list[i]
			return &p, true
		}
	}
	return nil, false
}

// releaseImage deletes the pass image behind imageURL unless a stored
// participant still points at it. When the references cannot be read the
// file is kept and left to the orphan sweep.
func releaseImage(ctx context.Context, repo repository.ParticipantRepository, images storage.StorageInterface, imageURL string) {
	key, ok := images.KeyFromURL(imageURL)
	if !ok {
		return
	}

	sctx, cancel := storeContext(ctx)
	all, err := repo.List(sctx)
	cancel()
	if err != nil {
		logger.Warn("Keeping pass image, references unknown", "key", key, "error", err)
		return
	}
	for _, p := range all {
		if other, ok := images.KeyFromURL(p.ImageURL); ok && other == key {
			logger.Debug("Keeping pass image still in use", "key", key, "id", p.ID)
			return
		}
	}

	if err := images.DeleteFile(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Failed to remove pass image", "key", key, "error", err)
	}
}

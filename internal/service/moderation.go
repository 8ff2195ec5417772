package service

import (
	"context"
	"strings"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/repository"
	"vighnaharta-backend/internal/storage"
)

type moderationService struct {
	repo   repository.ParticipantRepository
	images storage.StorageInterface
}

func NewModerationService(repo repository.ParticipantRepository, images storage.StorageInterface) ModerationService {
	return &moderationService{repo: repo, images: images}
}

func (s *moderationService) ListPending(ctx context.Context) ([]domain.Participant, error) {
	sctx, cancel := storeContext(ctx)
	defer cancel()
	all, err := s.repo.List(sctx)
	if err != nil {
		return nil, domain.Unavailable("list participants", err)
	}
	_, pending := domain.PartitionByApproval(all)
	return pending, nil
}

func (s *moderationService) Approve(ctx context.Context, id string) (*domain.Participant, error) {
	logger.EnterMethod("moderationService.Approve", "id", id)
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id is required")
	}

	sctx, cancel := storeContext(ctx)
	defer cancel()
	p, err := s.repo.SetApproval(sctx, id, true)
	if err != nil {
		err = domain.Unavailable("approve participant", err)
		logger.ExitMethodWithError("moderationService.Approve", err, "id", id)
		return nil, err
	}
	logger.ExitMethod("moderationService.Approve", "id", id)
	return p, nil
}

// Reject permanently removes the participant and, when no other record
// shares it, its pass image.
func (s *moderationService) Reject(ctx context.Context, id string) error {
	logger.EnterMethod("moderationService.Reject", "id", id)
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id is required")
	}

	sctx, cancel := storeContext(ctx)
	all, err := s.repo.List(sctx)
	cancel()
	if err != nil {
		err = domain.Unavailable("list participants", err)
		logger.ExitMethodWithError("moderationService.Reject", err, "id", id)
		return err
	}
	target, ok := findByID(all, id)
	if !ok {
		logger.ExitMethodWithError("moderationService.Reject", domain.ErrNotFound, "id", id)
		return domain.ErrNotFound
	}

	sctx, cancel = storeContext(ctx)
	err = s.repo.Delete(sctx, id)
	cancel()
	if err != nil {
		err = domain.Unavailable("delete participant", err)
		logger.ExitMethodWithError("moderationService.Reject", err, "id", id)
		return err
	}

	releaseImage(ctx, s.repo, s.images, target.ImageURL)
	logger.ExitMethod("moderationService.Reject", "id", id)
	return nil
}

package service

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
	"vighnaharta-backend/internal/repository"
	"vighnaharta-backend/internal/storage"
	"vighnaharta-backend/internal/utils"
)

type participantService struct {
	repo       repository.ParticipantRepository
	images     storage.StorageInterface
	email      EmailService
	adminEmail string
	pageSize   int
	dispatch   func(func())
}

func NewParticipantService(repo repository.ParticipantRepository, images storage.StorageInterface, email EmailService, adminEmail string, pageSize int) ParticipantService {
	if pageSize <= 0 {
		pageSize = utils.GalleryPageSize
	}
	return &participantService{
		repo:       repo,
		images:     images,
		email:      email,
		adminEmail: adminEmail,
		pageSize:   pageSize,
		dispatch:   func(f func()) { go f() },
	}
}

func (s *participantService) validateInput(in domain.PassSubmission) ([]byte, string, error) {
	switch {
	case strings.TrimSpace(in.ImageData) == "":
		return nil, "", domain.NewValidationError("imageData is required")
	case strings.TrimSpace(in.Filename) == "":
		return nil, "", domain.NewValidationError("filename is required")
	case strings.TrimSpace(in.Name) == "":
		return nil, "", domain.NewValidationError("name is required")
	case strings.TrimSpace(in.FlatNumber) == "":
		return nil, "", domain.NewValidationError("flatNumber is required")
	}
	data, err := decodeDataURL(in.ImageData)
	if err != nil {
		return nil, "", err
	}
	key, err := s.images.SanitizeKey(in.Filename)
	if err != nil {
		return nil, "", domain.NewValidationError(err.Error())
	}
	return data, key, nil
}

func (s *participantService) writeImage(ctx context.Context, key string, data []byte) error {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	if err := s.images.SaveFile(ctx, key, bytes.NewReader(data)); err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrInvalidKey) {
			return domain.NewValidationError(err.Error())
		}
		return domain.Unavailable("save pass image", err)
	}
	return nil
}

// removeImage deletes a stored pass image that no participant references.
// Failures are logged only.
func (s *participantService) removeImage(ctx context.Context, imageURL string) {
	releaseImage(ctx, s.repo, s.images, imageURL)
}

// SavePass stores the pass image and upserts the participant by
// case-insensitive name and flat number.
func (s *participantService) SavePass(ctx context.Context, in domain.PassSubmission) (*domain.Participant, error) {
	logger.EnterMethod("participantService.SavePass", "name", in.Name, "flatNumber", in.FlatNumber)

	data, key, err := s.validateInput(in)
	if err != nil {
		logger.ExitMethodWithError("participantService.SavePass", err)
		return nil, err
	}
	name, flat := strings.TrimSpace(in.Name), strings.TrimSpace(in.FlatNumber)

	sctx, cancel := storeContext(ctx)
	existing, err := s.repo.FindByIdentity(sctx, name, flat)
	cancel()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		err = domain.Unavailable("find participant", err)
		logger.ExitMethodWithError("participantService.SavePass", err)
		return nil, err
	}

	if err := s.writeImage(ctx, key, data); err != nil {
		logger.ExitMethodWithError("participantService.SavePass", err)
		return nil, err
	}
	imageURL := s.images.URL(key)

	if existing != nil {
		updated, err := s.applyUpdate(ctx, existing, name, flat, imageURL)
		if err != nil {
			logger.ExitMethodWithError("participantService.SavePass", err)
			return nil, err
		}
		logger.ExitMethod("participantService.SavePass", "id", updated.ID, "updated", true)
		return updated, nil
	}

	p := &domain.Participant{Name: name, FlatNumber: flat, ImageURL: imageURL}
	sctx, cancel = storeContext(ctx)
	err = s.repo.Create(sctx, p)
	cancel()
	if err != nil {
		s.removeImage(ctx, imageURL)
		err = domain.Unavailable("create participant", err)
		logger.ExitMethodWithError("participantService.SavePass", err)
		return nil, err
	}

	s.notifyRegistration(*p)
	logger.ExitMethod("participantService.SavePass", "id", p.ID, "updated", false)
	return p, nil
}

// UpdatePass replaces the pass of an existing participant.
func (s *participantService) UpdatePass(ctx context.Context, id string, in domain.PassSubmission) (*domain.Participant, error) {
	logger.EnterMethod("participantService.UpdatePass", "id", id)

	if strings.TrimSpace(id) == "" {
		err := domain.NewValidationError("id is required")
		logger.ExitMethodWithError("participantService.UpdatePass", err)
		return nil, err
	}
	data, key, err := s.validateInput(in)
	if err != nil {
		logger.ExitMethodWithError("participantService.UpdatePass", err)
		return nil, err
	}

	sctx, cancel := storeContext(ctx)
	all, err := s.repo.List(sctx)
	cancel()
	if err != nil {
		err = domain.Unavailable("list participants", err)
		logger.ExitMethodWithError("participantService.UpdatePass", err)
		return nil, err
	}
	existing, ok := findByID(all, id)
	if !ok {
		logger.ExitMethodWithError("participantService.UpdatePass", domain.ErrNotFound)
		return nil, domain.ErrNotFound
	}

	if err := s.writeImage(ctx, key, data); err != nil {
		logger.ExitMethodWithError("participantService.UpdatePass", err)
		return nil, err
	}

	updated, err := s.applyUpdate(ctx, existing, strings.TrimSpace(in.Name), strings.TrimSpace(in.FlatNumber), s.images.URL(key))
	if err != nil {
		logger.ExitMethodWithError("participantService.UpdatePass", err)
		return nil, err
	}
	logger.ExitMethod("participantService.UpdatePass", "id", updated.ID)
	return updated, nil
}

// applyUpdate writes the new fields and drops the superseded image.
func (s *participantService) applyUpdate(ctx context.Context, existing *domain.Participant, name, flat, imageURL string) (*domain.Participant, error) {
	sctx, cancel := storeContext(ctx)
	updated, err := s.repo.Update(sctx, existing.ID, domain.ParticipantUpdate{
		Name:       &name,
		FlatNumber: &flat,
		ImageURL:   &imageURL,
	})
	cancel()
	if err != nil {
		if existing.ImageURL != imageURL {
			s.removeImage(ctx, imageURL)
		}
		return nil, domain.Unavailable("update participant", err)
	}
	if existing.ImageURL != "" && existing.ImageURL != imageURL {
		s.removeImage(ctx, existing.ImageURL)
	}
	return updated, nil
}

func (s *participantService) Create(ctx context.Context, name, flatNumber, imageURL string) (*domain.Participant, error) {
	p := &domain.Participant{
		Name:       strings.TrimSpace(name),
		FlatNumber: strings.TrimSpace(flatNumber),
		ImageURL:   imageURL,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sctx, cancel := storeContext(ctx)
	defer cancel()
	if err := s.repo.Create(sctx, p); err != nil {
		return nil, domain.Unavailable("create participant", err)
	}
	s.notifyRegistration(*p)
	return p, nil
}

func (s *participantService) List(ctx context.Context) ([]domain.Participant, error) {
	sctx, cancel := storeContext(ctx)
	defer cancel()
	list, err := s.repo.List(sctx)
	if err != nil {
		return nil, domain.Unavailable("list participants", err)
	}
	return list, nil
}

// Gallery returns one page of approved participants.
func (s *participantService) Gallery(ctx context.Context, page int) (utils.Page[domain.Participant], error) {
	all, err := s.List(ctx)
	if err != nil {
		return utils.Paginate([]domain.Participant{}, 0, s.pageSize), err
	}
	approved, _ := domain.PartitionByApproval(all)
	return utils.Paginate(approved, page, s.pageSize), nil
}

func (s *participantService) notifyRegistration(p domain.Participant) {
	if s.email == nil || s.adminEmail == "" {
		return
	}
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Notify)
		defer cancel()
		if err := s.email.SendRegistrationNotification(ctx, s.adminEmail, p); err != nil {
			logger.Warn("Failed to send registration notification", "participantId", p.ID, "error", err)
		}
	})
}

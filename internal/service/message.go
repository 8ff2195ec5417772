package service

import (
	"context"
	"strings"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
	"vighnaharta-backend/internal/repository"
	"vighnaharta-backend/internal/utils"
)

type messageService struct {
	repo      repository.MessageRepository
	directory *OrganizerDirectory
	email     EmailService
	pageSize  int
	dispatch  func(func())
}

func NewMessageService(repo repository.MessageRepository, directory *OrganizerDirectory, email EmailService, pageSize int) MessageService {
	if pageSize <= 0 {
		pageSize = utils.MessagePageSize
	}
	return &messageService{
		repo:      repo,
		directory: directory,
		email:     email,
		pageSize:  pageSize,
		dispatch:  func(f func()) { go f() },
	}
}

func (s *messageService) Create(ctx context.Context, text, organizer, organizerRole string) (*domain.Message, error) {
	m := &domain.Message{
		Text:          strings.TrimSpace(text),
		Organizer:     strings.TrimSpace(organizer),
		OrganizerRole: strings.TrimSpace(organizerRole),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	sctx, cancel := storeContext(ctx)
	defer cancel()
	if err := s.repo.Create(sctx, m); err != nil {
		return nil, domain.Unavailable("create message", err)
	}
	logger.Info("Secret message stored", "id", m.ID, "organizer", m.Organizer)

	if to := s.directory.EmailFor(m.Organizer, m.OrganizerRole); to != "" && s.email != nil {
		msg := *m
		s.dispatch(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Notify)
			defer cancel()
			if err := s.email.SendSecretMessageNotification(ctx, to, msg); err != nil {
				logger.Warn("Failed to send message notification", "messageId", msg.ID, "error", err)
			}
		})
	}
	return m, nil
}

func (s *messageService) List(ctx context.Context) ([]domain.Message, error) {
	sctx, cancel := storeContext(ctx)
	defer cancel()
	list, err := s.repo.List(sctx)
	if err != nil {
		return nil, domain.Unavailable("list messages", err)
	}
	return list, nil
}

// Grouped returns messages grouped per organizer and role. Empty filters
// match every group; page applies to each group independently.
func (s *messageService) Grouped(ctx context.Context, organizer, organizerRole string, page int) ([]MessageGroupPage, error) {
	list, err := s.List(ctx)
	if err != nil {
		return []MessageGroupPage{}, err
	}

	out := []MessageGroupPage{}
	for _, g := range domain.GroupMessages(list) {
		if organizer != "" && !strings.EqualFold(g.Organizer, organizer) {
			continue
		}
		if organizerRole != "" && !strings.EqualFold(g.OrganizerRole, organizerRole) {
			continue
		}
		out = append(out, MessageGroupPage{
			Organizer:     g.Organizer,
			OrganizerRole: g.OrganizerRole,
			Messages:      utils.Paginate(g.Messages, page, s.pageSize),
		})
	}
	return out, nil
}

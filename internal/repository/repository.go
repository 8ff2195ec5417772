package repository

import (
	"context"

	"vighnaharta-backend/internal/domain"
)

// ParticipantRepository persists participants in insertion order.
type ParticipantRepository interface {
	List(ctx context.Context) ([]domain.Participant, error)
	Create(ctx context.Context, p *domain.Participant) error
	Update(ctx context.Context, id string, fields domain.ParticipantUpdate) (*domain.Participant, error)
	SetApproval(ctx context.Context, id string, approved bool) (*domain.Participant, error)
	Delete(ctx context.Context, id string) error
	FindByIdentity(ctx context.Context, name, flatNumber string) (*domain.Participant, error)
}

// MessageRepository persists organizer messages. There is no update or delete.
type MessageRepository interface {
	List(ctx context.Context) ([]domain.Message, error)
	Create(ctx context.Context, m *domain.Message) error
}

// Store is the full persistence surface handed to services.
type Store interface {
	Participants() ParticipantRepository
	Messages() MessageRepository
	Ping(ctx context.Context) error
	Close() error
}

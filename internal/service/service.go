package service

import (
	"context"
	"time"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/utils"
)

type ParticipantService interface {
	SavePass(ctx context.Context, in domain.PassSubmission) (*domain.Participant, error)
	UpdatePass(ctx context.Context, id string, in domain.PassSubmission) (*domain.Participant, error)
	Create(ctx context.Context, name, flatNumber, imageURL string) (*domain.Participant, error)
	List(ctx context.Context) ([]domain.Participant, error)
	Gallery(ctx context.Context, page int) (utils.Page[domain.Participant], error)
}

type ModerationService interface {
	ListPending(ctx context.Context) ([]domain.Participant, error)
	Approve(ctx context.Context, id string) (*domain.Participant, error)
	Reject(ctx context.Context, id string) error
}

// MessageGroupPage is one organizer's messages restricted to a single page.
type MessageGroupPage struct {
	Organizer     string                     `json:"organizer"`
	OrganizerRole string                     `json:"organizerRole"`
	Messages      utils.Page[domain.Message] `json:"messages"`
}

type MessageService interface {
	Create(ctx context.Context, text, organizer, organizerRole string) (*domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	Grouped(ctx context.Context, organizer, organizerRole string, page int) ([]MessageGroupPage, error)
}

type AuthService interface {
	Login(ctx context.Context, passphrase string) (token string, expiresAt time.Time, err error)
	Authorize(token string) error
}

type EmailService interface {
	SendRegistrationNotification(ctx context.Context, adminEmail string, p domain.Participant) error
	SendSecretMessageNotification(ctx context.Context, organizerEmail string, m domain.Message) error
	SendPendingDigest(ctx context.Context, adminEmail string, pending []domain.Participant) error
}

package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vighnaharta-backend/internal/domain"
)

// MockParticipantRepo
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) List(ctx context.Context) ([]domain.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil && p.ID == "" {
		p.ID = "generated-id"
	}
	return args.Error(0)
}
func (m *MockParticipantRepo) Update(ctx context.Context, id string, fields domain.ParticipantUpdate) (*domain.Participant, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) SetApproval(ctx context.Context, id string, approved bool) (*domain.Participant, error) {
	args := m.Called(ctx, id, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockParticipantRepo) FindByIdentity(ctx context.Context, name, flatNumber string) (*domain.Participant, error) {
	args := m.Called(ctx, name, flatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}

// MockMessageRepo
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) List(ctx context.Context) ([]domain.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil && msg.ID == "" {
		msg.ID = "message-id"
	}
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRegistrationNotification(ctx context.Context, adminEmail string, p domain.Participant) error {
	args := m.Called(ctx, adminEmail, p)
	return args.Error(0)
}
func (m *MockEmailService) SendSecretMessageNotification(ctx context.Context, organizerEmail string, msg domain.Message) error {
	args := m.Called(ctx, organizerEmail, msg)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingDigest(ctx context.Context, adminEmail string, pending []domain.Participant) error {
	args := m.Called(ctx, adminEmail, pending)
	return args.Error(0)
}

func syncDispatch(f func()) { f() }

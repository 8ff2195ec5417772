package client

import (
	"context"
	"errors"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
)

var ErrNotConfirmed = errors.New("rejection not confirmed")

// ModerationAPI is the remote half of moderation.
type ModerationAPI interface {
	Approve(ctx context.Context, id string) (*domain.Participant, error)
	Reject(ctx context.Context, id string) error
}

// Moderator applies moderation decisions to the local view first and
// compensates when the server refuses them.
type Moderator struct {
	api  ModerationAPI
	view *View
}

func NewModerator(api ModerationAPI, view *View) *Moderator {
	return &Moderator{api: api, view: view}
}

func (m *Moderator) View() *View { return m.view }

func (m *Moderator) Approve(ctx context.Context, id string) error {
	err := m.view.Reconcile(ctx, &setApproval{id: id, approved: true}, func(ctx context.Context) error {
		_, err := m.api.Approve(ctx, id)
		return err
	})
	if err != nil {
		logger.Warn("Approve failed, local view reverted", "id", id, "error", err)
	}
	return err
}

// Reject removes the participant once confirm returns true. A declined or
// missing confirmation changes nothing and returns ErrNotConfirmed.
func (m *Moderator) Reject(ctx context.Context, id string, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return ErrNotConfirmed
	}
	err := m.view.Reconcile(ctx, &removeParticipant{id: id}, func(ctx context.Context) error {
		return m.api.Reject(ctx, id)
	})
	if err != nil {
		logger.Warn("Reject failed, participant restored", "id", id, "error", err)
	}
	return err
}

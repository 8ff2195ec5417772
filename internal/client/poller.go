package client

import (
	"context"
	"time"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/platform/timeouts"
)

// ParticipantLister fetches the full participant list.
type ParticipantLister interface {
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
}

// Poller refreshes a View on a fixed interval.
type Poller struct {
	source   ParticipantLister
	view     *View
	interval time.Duration
}

func NewPoller(source ParticipantLister, view *View, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = timeouts.PollInterval
	}
	return &Poller{source: source, view: view, interval: interval}
}

// PollOnce fetches and replaces the view. On error the view is kept.
func (p *Poller) PollOnce(ctx context.Context) error {
	list, err := p.source.ListParticipants(ctx)
	if err != nil {
		logger.Warn("Participant refresh failed", "error", err)
		return err
	}
	p.view.Replace(list)
	return nil
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	_ = p.PollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.PollOnce(ctx)
		}
	}
}

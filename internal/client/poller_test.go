package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vighnaharta-backend/internal/domain"
)

type fakeLister struct {
	list  []domain.Participant
	err   error
	calls atomic.Int32
}

func (f *fakeLister) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	f.calls.Add(1)
	return f.list, f.err
}

func TestPoller_PollOnce(t *testing.T) {
	view := NewView(ashaAndNeev())

	src := &fakeLister{list: []domain.Participant{{ID: "x"}}}
	require.NoError(t, NewPoller(src, view, 0).PollOnce(context.Background()))
	assert.Equal(t, []string{"x"}, ids(view.Snapshot()))

	failing := &fakeLister{err: domain.ErrStoreUnavailable}
	err := NewPoller(failing, view, 0).PollOnce(context.Background())
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.Equal(t, []string{"x"}, ids(view.Snapshot()))
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	src := &fakeLister{}
	p := NewPoller(src, NewView(nil), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&fakeLister{}, NewView(nil), 0)
	assert.Equal(t, 10*time.Second, p.interval)
}

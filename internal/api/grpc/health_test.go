package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct {
	down atomic.Bool
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if p.down.Load() {
		return errors.New("store closed")
	}
	return nil
}

func TestHealthServer_FollowsStore(t *testing.T) {
	store := &fakePinger{}
	srv, err := NewHealthServer("127.0.0.1:0", store, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	conn, err := gogrpc.NewClient(srv.Addr(), gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := grpc_health_v1.NewHealthClient(conn)

	status := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		callCtx, callCancel := context.WithTimeout(context.Background(), time.Second)
		defer callCancel()
		resp, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			return grpc_health_v1.HealthCheckResponse_UNKNOWN
		}
		return resp.GetStatus()
	}

	assert.Eventually(t, func() bool { return status() == grpc_health_v1.HealthCheckResponse_SERVING }, 2*time.Second, 10*time.Millisecond)

	store.down.Store(true)
	assert.Eventually(t, func() bool { return status() == grpc_health_v1.HealthCheckResponse_NOT_SERVING }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHealthServer_Check(t *testing.T) {
	store := &fakePinger{}
	srv, err := NewHealthServer("127.0.0.1:0", store, time.Hour)
	require.NoError(t, err)
	defer srv.Close()

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, srv.Check(context.Background()))
	store.down.Store(true)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, srv.Check(context.Background()))
}

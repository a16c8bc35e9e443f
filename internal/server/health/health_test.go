package health

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func startBuf(t *testing.T, s *Server) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, svc string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealth_StartsNotServing(t *testing.T) {
	s := New(zaptest.NewLogger(t), false)
	c := startBuf(t, s)

	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, c, ""))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, c, Service))
}

func TestHealth_ProbeTogglesStatus(t *testing.T) {
	s := New(zaptest.NewLogger(t), true)
	c := startBuf(t, s)

	require.NoError(t, s.Probe(context.Background(), pinger{}, time.Second))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, c, Service))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, c, ""))

	down := errors.New("db down")
	require.ErrorIs(t, s.Probe(context.Background(), pinger{err: down}, time.Second), down)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, c, Service))
}

func TestHealth_WatchStopsWithContext(t *testing.T) {
	s := New(zaptest.NewLogger(t), false)
	c := startBuf(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, pinger{}, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: Service})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

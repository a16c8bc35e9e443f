// Package health serves the standard gRPC health protocol for the recipe API.
package health

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name under which the API reports its status.
const Service = "recipebox.Recipes"

// Pinger is satisfied by the storage layer.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps a grpc.Server exposing only health (and optionally reflection).
type Server struct {
	gs  *grpc.Server
	hs  *grpchealth.Server
	log *zap.Logger
}

// New builds a health server. Both the overall and the API status start as NOT_SERVING.
func New(log *zap.Logger, withReflection bool) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gs := grpc.NewServer()
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	if withReflection {
		reflection.Register(gs)
	}
	s := &Server{gs: gs, hs: hs, log: log}
	s.SetServing(false)
	return s
}

// SetServing flips both the overall and the API status.
func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.hs.SetServingStatus("", st)
	s.hs.SetServingStatus(Service, st)
}

// Probe pings storage once and reports the result as serving status.
func (s *Server) Probe(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := p.Ping(ctx)
	s.SetServing(err == nil)
	return err
}

// Watch probes storage every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, p Pinger, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Probe(ctx, p, interval); err != nil && ctx.Err() == nil {
				s.log.Warn("storage ping failed", zap.Error(err))
			}
		}
	}
}

// Serve blocks serving on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.gs.Serve(lis)
}

// Stop reports NOT_SERVING to watchers and drains in-flight RPCs.
func (s *Server) Stop() {
	s.hs.Shutdown()
	s.gs.GracefulStop()
}

// Package grpcserver exposes the standard gRPC health service, reporting
// NOT_SERVING while the ledger cannot be reached.
package grpcserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"finsight/internal/ledger"
	"finsight/internal/log"
)

// ServiceLedger is the health service name tracking ledger readiness. The
// empty name reports the same status.
const ServiceLedger = "finsight.Ledger"

type Server struct {
	addr string

	mu      sync.Mutex
	lis     net.Listener
	stopped bool

	Server *grpc.Server
	health *health.Server
	pinger ledger.Pinger
	logger *log.Logger
}

func New(addr string, pinger ledger.Pinger, logger *log.Logger) *Server {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(ServiceLedger, healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{
		addr:   addr,
		Server: s,
		health: hs,
		pinger: pinger,
		logger: logger.WithComponent(log.ComponentGRPC),
	}
}

// Start blocks serving on addr until Stop is called. Stopping, even before
// Start got to listen, is a clean exit.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lis = lis
	s.mu.Unlock()

	s.logger.Info("gRPC health server listening", "addr", lis.Addr().String())
	if err := s.Server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) Stop() {
	s.mu.Lock()
	s.stopped = true
	lis := s.lis
	s.mu.Unlock()

	s.health.Shutdown()
	s.Server.GracefulStop()
	if lis != nil {
		_ = lis.Close()
	}
}

// Watch pings the ledger every interval and updates the health status
// until ctx is cancelled. It always returns nil.
func (s *Server) Watch(ctx context.Context, interval time.Duration) error {
	s.check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.check(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Server) check(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(pctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.WarnContext(ctx, "Ledger health check failed", log.FieldError, err.Error())
	}
	s.health.SetServingStatus(ServiceLedger, status)
	s.health.SetServingStatus("", status)
}

// Package health serves the gRPC health protocol and reports dependency
// readiness through it.
package health

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewServer(log *zap.Logger, enableReflection bool) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	if enableReflection {
		reflection.Register(s)
	}

	return &Server{grpc: s, health: healthServer, log: log}
}

func (s *Server) SetServing(service string, serving bool) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if !serving {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Monitor runs checks every interval and marks service NOT_SERVING while
// any of them fails. It returns when ctx is done.
func (s *Server) Monitor(ctx context.Context, interval time.Duration, service string, checks map[string]Check) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.probe(ctx, service, checks)
	for {
		select {
		case <-ticker.C:
			s.probe(ctx, service, checks)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) probe(ctx context.Context, service string, checks map[string]Check) {
	serving := true
	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(checkCtx)
		cancel()
		if err != nil {
			serving = false
			s.log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
		}
	}
	s.SetServing(service, serving)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop marks everything NOT_SERVING and drains in-flight RPCs.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

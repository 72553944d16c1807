package grpcapi

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const CheckoutService = "voltz.checkout.Dashboard"

// Probe reports whether one backing dependency is usable.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	server *health.Server
	probes []Probe
	log    *zap.Logger
}

func NewHealthHandler(log *zap.Logger, probes ...Probe) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	srv := health.NewServer()
	srv.SetServingStatus(CheckoutService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthHandler{server: srv, probes: probes, log: log}
}

// Register attaches the health and reflection services to s.
func (h *HealthHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
	reflection.Register(s)
}

// Probe runs every probe once and publishes the combined status.
func (h *HealthHandler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for _, p := range h.probes {
		if err := p.Check(ctx); err != nil {
			h.log.Warn("health probe failed", zap.String("probe", p.Name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.server.SetServingStatus(CheckoutService, status)
	h.server.SetServingStatus("", status)
	return status
}

// Run probes every interval until ctx is done, then marks the service as
// shutting down.
func (h *HealthHandler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

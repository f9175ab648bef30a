package grpcv1

import (
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func RegisterServices(collector Submitter, counters *metrics.Counters) func(s *grpc.Server) {
	return func(s *grpc.Server) {
		s.RegisterService(&ExceptionServiceDesc, NewExceptionController(collector, counters))

		hs := health.NewServer()
		hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(s, hs)
	}
}

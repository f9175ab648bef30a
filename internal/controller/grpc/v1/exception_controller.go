package grpcv1

import (
	"context"

	logginghelper "github.com/Egor213/ExceptionSieve/internal/controller/common/logging"
	"github.com/Egor213/ExceptionSieve/internal/controller/validators"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName  = "exceptionsieve.v1.ExceptionService"
	ReportMethod = "/" + ServiceName + "/Report"
)

type Submitter interface {
	Submit(ctx context.Context, ev *domain.ExceptionEvent) bool
}

type ExceptionServiceServer interface {
	Report(ctx context.Context, req *ReportRequest) (*ReportResponse, error)
}

type ExceptionController struct {
	collector Submitter
	counters  *metrics.Counters
}

func NewExceptionController(collector Submitter, cnt *metrics.Counters) *ExceptionController {
	return &ExceptionController{
		collector: collector,
		counters:  cnt,
	}
}

func (c *ExceptionController) Report(ctx context.Context, req *ReportRequest) (*ReportResponse, error) {
	ev := NewExceptionEventFromRequest(req)

	c.counters.GrpcRequests.Inc("Report", "received")
	if err := validators.Validate(ev); err != nil {
		c.counters.GrpcRequests.Inc("Report", "failed")
		logginghelper.LogDropped(ev, err.Error())
		return nil, status.Errorf(codes.InvalidArgument, "invalid argument: %s", err)
	}

	logginghelper.LogReceived(ev, "grpc")

	if !c.collector.Submit(ctx, ev) {
		c.counters.GrpcRequests.Inc("Report", "rejected")
		return nil, status.Error(codes.ResourceExhausted, "collector is saturated")
	}

	c.counters.GrpcRequests.Inc("Report", "ok")

	return &ReportResponse{
		ID:     ev.ID,
		Status: StatusAccepted,
	}, nil
}

func reportHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExceptionServiceServer).Report(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExceptionServiceServer).Report(ctx, req.(*ReportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ExceptionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExceptionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Report",
			Handler:    reportHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

package grpcv1

import (
	"github.com/Egor213/ExceptionSieve/internal/controller/common/payload"
	"github.com/Egor213/ExceptionSieve/internal/domain"
)

const StatusAccepted = payload.StatusAccepted

type (
	ReportRequest  = payload.Exception
	ReportResponse = payload.Accepted
)

func NewExceptionEventFromRequest(req *ReportRequest) *domain.ExceptionEvent {
	return req.ToEvent()
}

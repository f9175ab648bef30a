// Package payload holds the wire shape of remotely reported exceptions.
package payload

import (
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/google/uuid"
)

const StatusAccepted = "ACCEPTED"

type Exception struct {
	ID            string              `json:"id,omitempty"`
	AppName       string              `json:"appName"`
	Environment   string              `json:"environment"`
	HostName      string              `json:"hostName,omitempty"`
	ExceptionType string              `json:"exceptionType"`
	Message       string              `json:"message"`
	StackTrace    string              `json:"stackTrace,omitempty"`
	ClassName     string              `json:"className,omitempty"`
	MethodName    string              `json:"methodName,omitempty"`
	LineNumber    int                 `json:"lineNumber,omitempty"`
	ErrorLocation string              `json:"errorLocation,omitempty"`
	Request       *domain.RequestInfo `json:"request,omitempty"`
	ThreadName    string              `json:"threadName,omitempty"`
	TraceID       string              `json:"traceId,omitempty"`
	SpanID        string              `json:"spanId,omitempty"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

type Accepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ToEvent assigns an id when the sender did not. Fingerprints are always derived locally.
func (p *Exception) ToEvent() *domain.ExceptionEvent {
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &domain.ExceptionEvent{
		ID:            id,
		AppName:       p.AppName,
		Environment:   p.Environment,
		HostName:      p.HostName,
		ExceptionType: p.ExceptionType,
		Message:       p.Message,
		StackTrace:    p.StackTrace,
		ClassName:     p.ClassName,
		MethodName:    p.MethodName,
		LineNumber:    p.LineNumber,
		ErrorLocation: p.ErrorLocation,
		Request:       p.Request,
		ThreadName:    p.ThreadName,
		TraceID:       p.TraceID,
		SpanID:        p.SpanID,
		OccurredAt:    p.OccurredAt,
	}
}

package domain

import "time"

type RequestInfo struct {
	Method   string            `json:"method"`
	URI      string            `json:"uri"`
	ClientIP string            `json:"clientIp"`
	Params   map[string]string `json:"params,omitempty"`
}

// ExceptionEvent is a captured failure travelling through the funnel.
// It is never persisted as is.
type ExceptionEvent struct {
	ID            string       `json:"id"`
	AppName       string       `json:"appName"`
	Environment   string       `json:"environment"`
	HostName      string       `json:"hostName"`
	ExceptionType string       `json:"exceptionType"`
	Message       string       `json:"message"`
	StackTrace    string       `json:"stackTrace"`
	ClassName     string       `json:"className"`
	MethodName    string       `json:"methodName"`
	LineNumber    int          `json:"lineNumber"`
	ErrorLocation string       `json:"errorLocation"`
	Fingerprint   string       `json:"fingerprint"`
	Request       *RequestInfo `json:"request,omitempty"`
	ThreadID      int64        `json:"threadId"`
	ThreadName    string       `json:"threadName"`
	TraceID       string       `json:"traceId"`
	SpanID        string       `json:"spanId"`
	OccurredAt    time.Time    `json:"occurredAt"`
}

// AIDecisionAlert is the only decision persisted; ignored events are dropped.
const AIDecisionAlert = "ALERT"

type ExceptionRecord struct {
	ID            int64     `db:"id" json:"id"`
	AppName       string    `db:"app_name" json:"appName"`
	Environment   string    `db:"environment" json:"environment"`
	HostName      string    `db:"host_name" json:"hostName"`
	ExceptionType string    `db:"exception_type" json:"exceptionType"`
	Message       string    `db:"message" json:"message"`
	StackTrace    string    `db:"stack_trace" json:"stackTrace"`
	ErrorLocation string    `db:"error_location" json:"errorLocation"`
	Fingerprint   string    `db:"fingerprint" json:"fingerprint"`
	Severity      string    `db:"severity" json:"severity"`
	RequestMethod string    `db:"request_method" json:"requestMethod"`
	RequestURI    string    `db:"request_uri" json:"requestUri"`
	ClientIP      string    `db:"client_ip" json:"clientIp"`
	ThreadName    string    `db:"thread_name" json:"threadName"`
	TraceID       string    `db:"trace_id" json:"traceId"`
	OccurredAt    time.Time `db:"occurred_at" json:"occurredAt"`
	AIProcessed   bool      `db:"ai_processed" json:"aiProcessed"`
	AIDecision    string    `db:"ai_decision" json:"aiDecision"`
	AIReason      string    `db:"ai_reason" json:"aiReason"`
}

// NewExceptionRecord copies the persistable part of ev.
func NewExceptionRecord(ev *ExceptionEvent, severity string) *ExceptionRecord {
	rec := &ExceptionRecord{
		AppName:       ev.AppName,
		Environment:   ev.Environment,
		HostName:      ev.HostName,
		ExceptionType: ev.ExceptionType,
		Message:       ev.Message,
		StackTrace:    ev.StackTrace,
		ErrorLocation: ev.ErrorLocation,
		Fingerprint:   ev.Fingerprint,
		Severity:      severity,
		ThreadName:    ev.ThreadName,
		TraceID:       ev.TraceID,
		OccurredAt:    ev.OccurredAt,
	}
	if ev.Request != nil {
		rec.RequestMethod = ev.Request.Method
		rec.RequestURI = ev.Request.URI
		rec.ClientIP = ev.Request.ClientIP
	}
	return rec
}

package validators

import (
	"errors"
	"fmt"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
)

// Length caps follow the exception_records columns. Class and method are
// capped so the derived class.method:line location still fits its column.
const (
	maxAppLength         = 128
	maxEnvironmentLength = 64
	maxHostLength        = 255
	maxTypeLength        = 255
	maxClassLength       = 255
	maxMethodLength      = 128
	maxLocationLength    = 512
	maxRequestMethod     = 16
	maxClientIPLength    = 64
	maxThreadNameLength  = 255
	maxTraceIDLength     = 64
	maxMessageLength     = 64 * 1024
	maxStackLength       = 256 * 1024
	maxClockSkew         = time.Hour
)

var (
	ErrEmptyAppName        = errors.New("app name must be specified")
	ErrEmptyExceptionType  = errors.New("exception type must be specified")
	ErrExceptionTypeTooBig = errors.New("exception type is too long")
	ErrMessageTooBig       = errors.New("message is too long")
	ErrStackTooBig         = errors.New("stack trace is too long")
	ErrFieldTooLong        = errors.New("field is too long")
	ErrNegativeLine        = errors.New("line number must not be negative")
	ErrOccurredInFuture    = errors.New("occurred at is in the future")
)

type lengthCheck struct {
	field string
	value string
	max   int
}

func Validate(ev *domain.ExceptionEvent) error {
	if ev.AppName == "" {
		return ErrEmptyAppName
	}

	switch {
	case ev.ExceptionType == "":
		return ErrEmptyExceptionType
	case len(ev.ExceptionType) > maxTypeLength:
		return ErrExceptionTypeTooBig
	}

	if len(ev.Message) > maxMessageLength {
		return ErrMessageTooBig
	}
	if len(ev.StackTrace) > maxStackLength {
		return ErrStackTooBig
	}

	checks := []lengthCheck{
		{"appName", ev.AppName, maxAppLength},
		{"environment", ev.Environment, maxEnvironmentLength},
		{"hostName", ev.HostName, maxHostLength},
		{"className", ev.ClassName, maxClassLength},
		{"methodName", ev.MethodName, maxMethodLength},
		{"errorLocation", ev.ErrorLocation, maxLocationLength},
		{"threadName", ev.ThreadName, maxThreadNameLength},
		{"traceId", ev.TraceID, maxTraceIDLength},
	}
	if ev.Request != nil {
		checks = append(checks,
			lengthCheck{"request.method", ev.Request.Method, maxRequestMethod},
			lengthCheck{"request.clientIp", ev.Request.ClientIP, maxClientIPLength},
		)
	}
	for _, c := range checks {
		if len(c.value) > c.max {
			return fmt.Errorf("%w: %s exceeds %d bytes", ErrFieldTooLong, c.field, c.max)
		}
	}

	if ev.LineNumber < 0 {
		return ErrNegativeLine
	}
	if !ev.OccurredAt.IsZero() && ev.OccurredAt.After(time.Now().Add(maxClockSkew)) {
		return ErrOccurredInFuture
	}

	return nil
}

// Package capture turns Go errors and recovered panics into funnel events.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/fingerprint"
	"github.com/google/uuid"
)

const (
	maxFrames   = 64
	selfPackage = "github.com/Egor213/ExceptionSieve/internal/capture."
	panicFrame  = "runtime.gopanic"
)

type Capturer struct {
	appName     string
	environment string
	hostName    string
	now         func() time.Time
}

func New(appName, environment string) *Capturer {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &Capturer{
		appName:     appName,
		environment: environment,
		hostName:    host,
		now:         time.Now,
	}
}

type Option func(ev *domain.ExceptionEvent)

func WithRequest(req *domain.RequestInfo) Option {
	return func(ev *domain.ExceptionEvent) {
		ev.Request = req
	}
}

func WithTrace(traceID, spanID string) Option {
	return func(ev *domain.ExceptionEvent) {
		ev.TraceID = traceID
		ev.SpanID = spanID
	}
}

// WithOrigin overrides the originating frame, for errors whose stack is long gone.
func WithOrigin(class, method string, line int) Option {
	return func(ev *domain.ExceptionEvent) {
		ev.ClassName = class
		ev.MethodName = method
		ev.LineNumber = line
	}
}

// FromError describes err as raised by the caller of FromError.
func (c *Capturer) FromError(err error, opts ...Option) *domain.ExceptionEvent {
	return c.build(TypeName(err), err.Error(), callers(3), opts)
}

// FromPanic describes a value obtained from recover(). It must be called from
// the deferred function so the panicking frames are still on the stack.
func (c *Capturer) FromPanic(recovered any, opts ...Option) *domain.ExceptionEvent {
	frames := afterPanic(callers(3))

	var typ, msg string
	if err, ok := recovered.(error); ok {
		typ, msg = TypeName(err), err.Error()
	} else {
		typ, msg = fmt.Sprintf("panic(%T)", recovered), fmt.Sprint(recovered)
	}
	return c.build(typ, msg, frames, opts)
}

func (c *Capturer) build(typ, msg string, frames []runtime.Frame, opts []Option) *domain.ExceptionEvent {
	gid := goroutineID()
	ev := &domain.ExceptionEvent{
		ID:            uuid.NewString(),
		AppName:       c.appName,
		Environment:   c.environment,
		HostName:      c.hostName,
		ExceptionType: typ,
		Message:       msg,
		StackTrace:    formatStack(frames),
		ThreadID:      gid,
		ThreadName:    "goroutine " + strconv.FormatInt(gid, 10),
		OccurredAt:    c.now(),
	}

	if origin, ok := firstUserFrame(frames); ok {
		ev.ClassName, ev.MethodName = SplitFunction(origin.Function)
		ev.LineNumber = origin.Line
	}

	for _, opt := range opts {
		opt(ev)
	}

	if ev.ClassName != "" || ev.MethodName != "" {
		ev.ErrorLocation = fingerprint.Location(ev.ClassName, ev.MethodName, ev.LineNumber)
		ev.Fingerprint = fingerprint.Generate(ev.ExceptionType, ev.ErrorLocation)
	}
	return ev
}

// TypeName is the dynamic type of the innermost wrapped error.
func TypeName(err error) string {
	if err == nil {
		return "<nil>"
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}

// SplitFunction splits a qualified Go function name at its last dot,
// e.g. "pkg.(*Repo).Save" becomes "pkg.(*Repo)" and "Save".
func SplitFunction(fn string) (string, string) {
	slash := strings.LastIndexByte(fn, '/')
	if i := strings.LastIndexByte(fn[slash+1:], '.'); i >= 0 {
		i += slash + 1
		return fn[:i], fn[i+1:]
	}
	return "", fn
}

func callers(skip int) []runtime.Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}

	frames := make([]runtime.Frame, 0, n)
	it := runtime.CallersFrames(pcs[:n])
	for {
		f, more := it.Next()
		frames = append(frames, f)
		if !more {
			break
		}
	}
	return frames
}

// afterPanic drops the recovering frames, keeping the panicking ones.
func afterPanic(frames []runtime.Frame) []runtime.Frame {
	for i, f := range frames {
		if f.Function == panicFrame {
			return frames[i+1:]
		}
	}
	return frames
}

func firstUserFrame(frames []runtime.Frame) (runtime.Frame, bool) {
	for _, f := range frames {
		if isRuntime(f.Function) || strings.HasPrefix(f.Function, selfPackage) {
			continue
		}
		return f, true
	}
	return runtime.Frame{}, false
}

func isRuntime(fn string) bool {
	return strings.HasPrefix(fn, "runtime.") || strings.HasPrefix(fn, "internal/runtime/")
}

func formatStack(frames []runtime.Frame) string {
	var b strings.Builder
	for _, f := range frames {
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return b.String()
}

func goroutineID() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// "goroutine 42 [running]:"
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i > 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

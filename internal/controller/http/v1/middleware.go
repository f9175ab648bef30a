package httpv1

import (
	"errors"
	"net/http"

	"github.com/Egor213/ExceptionSieve/internal/capture"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/funnel"
	"github.com/labstack/echo/v4"
)

// CaptureMiddleware feeds handler panics and 5xx errors into sink.
// Panics are answered with 500 instead of crashing the server.
func CaptureMiddleware(c *capture.Capturer, sink funnel.Sink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				ev := c.FromPanic(r, requestOptions(ctx)...)
				sink.Collect(ctx.Request().Context(), ev)
				err = echo.NewHTTPError(http.StatusInternalServerError)
			}()

			err = next(ctx)
			if err != nil && statusOf(err) >= http.StatusInternalServerError {
				opts := append(requestOptions(ctx), capture.WithOrigin(ctx.Path(), ctx.Request().Method, 0))
				sink.Collect(ctx.Request().Context(), c.FromError(err, opts...))
			}
			return err
		}
	}
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func requestOptions(ctx echo.Context) []capture.Option {
	req := ctx.Request()

	var params map[string]string
	if q := ctx.QueryParams(); len(q) > 0 {
		params = make(map[string]string, len(q))
		for k, v := range q {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}

	return []capture.Option{
		capture.WithRequest(&domain.RequestInfo{
			Method:   req.Method,
			URI:      req.RequestURI,
			ClientIP: ctx.RealIP(),
			Params:   params,
		}),
		capture.WithTrace(req.Header.Get(echo.HeaderXRequestID), ""),
	}
}

package httpv1

import (
	"net/http"

	logginghelper "github.com/Egor213/ExceptionSieve/internal/controller/common/logging"
	"github.com/Egor213/ExceptionSieve/internal/controller/common/payload"
	"github.com/Egor213/ExceptionSieve/internal/controller/validators"
	"github.com/labstack/echo/v4"
)

type exceptionRoutes struct {
	collector Submitter
}

func newExceptionRoutes(g *echo.Group, collector Submitter) {
	r := &exceptionRoutes{collector: collector}
	g.POST("/exceptions", r.ingest)
}

func (r *exceptionRoutes) ingest(c echo.Context) error {
	var req payload.Exception
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ev := req.ToEvent()
	if err := validators.Validate(ev); err != nil {
		logginghelper.LogDropped(ev, err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	logginghelper.LogReceived(ev, "http")

	if !r.collector.Submit(c.Request().Context(), ev) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "collector is saturated")
	}

	return c.JSON(http.StatusAccepted, payload.Accepted{
		ID:     ev.ID,
		Status: payload.StatusAccepted,
	})
}

package httpv1

import (
	"context"

	"github.com/Egor213/ExceptionSieve/internal/capture"
	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/funnel"
	"github.com/labstack/echo/v4"
)

type Submitter interface {
	Submit(ctx context.Context, ev *domain.ExceptionEvent) bool
}

type StatsSource interface {
	Stats() domain.FunnelStats
	ResetStats()
	ClearCache()
}

type TrendAnalyzer interface {
	AnalyzeTrend(ctx context.Context, service string, days int) (domain.TrendReport, error)
}

type RouterDependencies struct {
	Capturer  *capture.Capturer
	Sink      funnel.Sink
	Collector Submitter
	Stats     StatsSource
	Trends    TrendAnalyzer
}

func ConfigureRouter(handler *echo.Echo, deps RouterDependencies) {
	handler.Use(CaptureMiddleware(deps.Capturer, deps.Sink))

	v1 := handler.Group("/api/v1")
	newExceptionRoutes(v1, deps.Collector)
	newStatsRoutes(v1, deps.Stats)
	newTrendRoutes(v1, deps.Trends)
}

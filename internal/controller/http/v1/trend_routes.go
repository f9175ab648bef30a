package httpv1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 90
)

type trendRoutes struct {
	trends TrendAnalyzer
}

func newTrendRoutes(g *echo.Group, trends TrendAnalyzer) {
	r := &trendRoutes{trends: trends}
	g.GET("/trends/:service", r.analyze)
}

func (r *trendRoutes) analyze(c echo.Context) error {
	service := c.Param("service")

	days := defaultTrendDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTrendDays {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 90")
		}
		days = n
	}

	report, err := r.trends.AnalyzeTrend(c.Request().Context(), service, days)
	if err != nil {
		log.WithFields(log.Fields{
			"service": service,
			"error":   err,
		}).Error("Trend analysis failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot analyze trend")
	}

	return c.JSON(http.StatusOK, report)
}

package httpv1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type statsRoutes struct {
	stats StatsSource
}

func newStatsRoutes(g *echo.Group, stats StatsSource) {
	r := &statsRoutes{stats: stats}
	g.GET("/stats", r.get)
	g.POST("/stats/reset", r.reset)
	g.POST("/cache/clear", r.clearCache)
}

func (r *statsRoutes) get(c echo.Context) error {
	return c.JSON(http.StatusOK, r.stats.Stats())
}

func (r *statsRoutes) reset(c echo.Context) error {
	r.stats.ResetStats()
	return c.NoContent(http.StatusNoContent)
}

func (r *statsRoutes) clearCache(c echo.Context) error {
	r.stats.ClearCache()
	log.WithField("remote", c.RealIP()).Info("Funnel caches cleared")
	return c.NoContent(http.StatusNoContent)
}

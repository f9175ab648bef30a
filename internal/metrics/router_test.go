package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Egor213/ExceptionSieve/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestConfigureRouter(t *testing.T) {
	e := echo.New()
	metrics.ConfigureRouter(e)

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func makeRequest(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestPrometheusMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	conf := DefaultMetricsConfig
	conf.Namespace = "catalog"
	conf.Registry = registry

	e := echo.New()
	e.Use(MetricsWithConfig(conf))

	e.GET("/products/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Param("id"))
	})
	e.GET("/products/:id/broken", func(c echo.Context) error {
		return fmt.Errorf("internal error")
	})

	for i := 0; i < 10; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/products/%d", i))
	}
	for i := 0; i < 4; i++ {
		makeRequest(e, http.MethodGet, "/products/1/broken")
	}
	for i := 0; i < 3; i++ {
		makeRequest(e, http.MethodGet, fmt.Sprintf("/unknown/%d", i))
	}
	makeRequest(e, http.MethodPost, "/unknown")

	body := makeRequest(e, http.MethodGet, "/metrics").Body.String()

	assert.Contains(t, body, `catalog_request_duration_seconds_count{code="200",method="GET",path="/products/:id"} 10`)
	assert.Contains(t, body, `catalog_request_duration_seconds_count{code="500",method="GET",path="/products/:id/broken"} 4`)
	assert.Contains(t, body, `catalog_request_duration_seconds_count{code="404",method="GET",path="/not-found"} 3`)
	assert.Contains(t, body, `catalog_request_duration_seconds_count{code="404",method="POST",path="/not-found"} 1`)
}

func TestMetricsReusesRegisteredCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	conf := DefaultMetricsConfig
	conf.Registry = registry

	first, err := registerHttpMetrics(registry, conf)
	assert.NoError(t, err)
	second, err := registerHttpMetrics(registry, conf)
	assert.NoError(t, err)
	assert.Same(t, first, second)
	assert.NotPanics(t, func() { MetricsWithConfig(conf) })
}

func TestNormalizeHTTPStatus(t *testing.T) {
	assert.Equal(t, "1xx", normalizeHTTPStatus(101))
	assert.Equal(t, "2xx", normalizeHTTPStatus(204))
	assert.Equal(t, "3xx", normalizeHTTPStatus(303))
	assert.Equal(t, "4xx", normalizeHTTPStatus(422))
	assert.Equal(t, "5xx", normalizeHTTPStatus(503))
}

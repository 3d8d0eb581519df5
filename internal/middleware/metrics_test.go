package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/orders/1", "/api/orders/2", "/api/orders/3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	}

	// All three requests land on one series keyed by the route pattern;
	// per-id paths must not show up as label values.
	assert.Equal(t, float64(3), testutil.ToFloat64(
		httpRequestsTotal.WithLabelValues("GET", "/api/orders/{id}", "200"),
	))
	assert.Equal(t, 1, testutil.CollectAndCount(httpRequestsTotal))
}

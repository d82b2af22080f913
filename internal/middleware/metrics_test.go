package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shopping-cart/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(metrics.NewHTTPMetrics(reg)))
	router.Post("/cart/products/{productId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/products/"+id, nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	series := make(map[string]float64)
	for _, mf := range mfs {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			series[labels["method"]+" "+labels["route"]+" "+labels["status"]] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(3), series["POST /cart/products/{productId} 200"])
	assert.Equal(t, float64(1), series["GET unmatched 404"])
}

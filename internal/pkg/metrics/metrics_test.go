package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, "/data", http.StatusOK, 10*time.Millisecond)
	c.RecordRequest(http.MethodGet, "/data", http.StatusOK, 20*time.Millisecond)
	c.RecordPrediction(1)
	c.RecordLLMQuery("timeout")

	require.InDelta(t, 2, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/data", "200")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.predictions.WithLabelValues("1")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.llmQueries.WithLabelValues("timeout")), 0)
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordPrediction(0)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `churnguard_predictions_total{label="0"} 1`)
}

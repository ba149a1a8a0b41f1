package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPrediction(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordPrediction(OutcomeSuccess, 2*time.Millisecond)
	mc.RecordPrediction(OutcomeSuccess, time.Millisecond)
	mc.RecordPrediction(OutcomeMissingFeature, time.Millisecond)
	mc.RecordLabel("Yes", true)
	mc.RecordDroppedColumns(3)
	mc.SetModelLoaded(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(mc.predictions.WithLabelValues(string(OutcomeSuccess))))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.predictions.WithLabelValues(string(OutcomeMissingFeature))))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.cacheHits))
	assert.Equal(t, 3.0, testutil.ToFloat64(mc.droppedColumns))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.modelLoaded))

	mc.SetModelLoaded(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(mc.modelLoaded))
}

func TestHandlerExposesMetrics(t *testing.T) {
	mc := NewMetricsCollector()
	mc.RecordPrediction(OutcomeInvalidInput, time.Millisecond)

	rr := httptest.NewRecorder()
	mc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `predict_requests_total{outcome="invalid_input"} 1`)
	assert.Contains(t, rr.Body.String(), "predict_duration_seconds_bucket")
}

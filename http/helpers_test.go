package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teamscore/ml"
)

type fakePredictor struct {
	prediction ml.Prediction
	err        error
	panicWith  interface{}
	calls      int
}

func (f *fakePredictor) Classify(row []float64) (ml.Prediction, error) {
	f.calls++
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.prediction, f.err
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"Missed Meetings (Frequency)":    1,
		"Deadline Adherence":             "Always on time",
		"Contribution Quality":           3,
		"Responsiveness":                 4,
		"Communication Respect":          5,
		"Workload Fairness (Perception)": 2,
		"Discussion Participation":       3,
		"Credit Taking":                  "No",
		"Conflict/Negativity":            1,
		"Harsh Criticism":                2,
		"Rework Required":                "No",
	}
}

// loadTestModel writes a logistic regression artifact sized to the default
// schema and loads it.
func loadTestModel(t *testing.T) ml.Classifier {
	t.Helper()
	schema := ml.DefaultFeatureSchema()
	weights := make([]float64, schema.Len())
	for i := range weights {
		weights[i] = 0.05 * float64(i%7-3)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":       ml.ModelTypeLogisticRegression,
		"classes":    []string{"No", "Yes"},
		"n_features": schema.Len(),
		"model":      map[string]interface{}{"weights": weights, "bias": -0.3},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	model, err := ml.LoadModelForSchema("", path, schema)
	require.NoError(t, err)
	return model
}

func newTestHandler(t *testing.T, config HandlerConfig, serverConfig ServerConfig) http.Handler {
	t.Helper()
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return NewServer(serverConfig, NewHandler(config), config.Logger).Handler()
}

func doRequest(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), "body: %s", rr.Body.String())
	return payload
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return payload
}

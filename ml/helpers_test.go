package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

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

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return payload
}

func writeArtifact(t *testing.T, v interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, mustJSON(t, v), 0o600))
	return path
}

func logisticArtifact(nFeatures int, bias float64) map[string]interface{} {
	weights := make([]float64, nFeatures)
	for i := range weights {
		weights[i] = 0.1
	}
	return map[string]interface{}{
		"type":       ModelTypeLogisticRegression,
		"classes":    []string{"No", "Yes"},
		"n_features": nFeatures,
		"model": map[string]interface{}{
			"weights": weights,
			"bias":    bias,
		},
	}
}

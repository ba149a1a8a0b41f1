package ml

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomForestAveragesTrees(t *testing.T) {
	body, err := json.Marshal(randomForestBody{Trees: []decisionTreeBody{
		{Nodes: stumpNodes()},
		{Nodes: []TreeNode{{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: []float64{0, 4}, IsLeaf: true}}},
	}})
	require.NoError(t, err)

	var rf RandomForest
	require.NoError(t, rf.unmarshal(body, []string{"No", "Yes"}, 3))
	assert.Equal(t, 3, rf.NumFeatures())

	proba, err := rf.PredictProba([]float64{0, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, proba[0], 1e-9)
	assert.InDelta(t, 0.6, proba[1], 1e-9)

	label, err := rf.Predict([]float64{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, "Yes", label)
}

func TestRandomForestRejectsEmptyForest(t *testing.T) {
	var rf RandomForest
	err := rf.unmarshal(json.RawMessage(`{"trees":[]}`), []string{"No", "Yes"}, 3)
	require.Error(t, err)

	_, err = rf.PredictProba([]float64{0, 0, 0})
	require.Error(t, err)
}

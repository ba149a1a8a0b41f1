package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClassifier struct {
	proba []float64
}

func (c fixedClassifier) Predict(row []float64) (string, error) { return "Yes", nil }

func (c fixedClassifier) PredictProba(row []float64) ([]float64, error) { return c.proba, nil }

func (c fixedClassifier) NumFeatures() int { return 1 }

func (c fixedClassifier) Classes() []string { return DefaultClasses() }

func TestClassifyRejectsInvalidProbabilities(t *testing.T) {
	tests := []struct {
		name  string
		proba []float64
	}{
		{"negative", []float64{-1, 2}},
		{"above one", []float64{0, 1.5}},
		{"sum below one", []float64{0, 0}},
		{"sum above one", []float64{0.6, 0.6}},
		{"nan", []float64{math.NaN(), 1}},
		{"three classes", []float64{0.2, 0.3, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(fixedClassifier{proba: tt.proba}, []float64{0})
			assert.Error(t, err)
		})
	}

	pred, err := Classify(fixedClassifier{proba: []float64{0.25, 0.75}}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0.25, 0.75}, pred.Probabilities)
}

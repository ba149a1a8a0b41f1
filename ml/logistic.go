package ml

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
)

// LogisticRegression is a binary linear classifier with a sigmoid link.
// P(positive) = sigmoid(Bias + Weights·x).
type LogisticRegression struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`

	classes []string
}

func (m *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	if len(features) != len(m.Weights) {
		return nil, errors.Newf("feature count mismatch: got %d, want %d", len(features), len(m.Weights))
	}
	sum := m.Bias
	for i, x := range features {
		sum += m.Weights[i] * x
	}
	p := sigmoid(sum)
	return []float64{1 - p, p}, nil
}

func (m *LogisticRegression) Predict(features []float64) (string, error) {
	proba, err := m.PredictProba(features)
	if err != nil {
		return "", err
	}
	if proba[1] >= m.threshold() {
		return m.classes[1], nil
	}
	return m.classes[0], nil
}

func (m *LogisticRegression) NumFeatures() int {
	return len(m.Weights)
}

func (m *LogisticRegression) Classes() []string {
	return append([]string(nil), m.classes...)
}

func (m *LogisticRegression) threshold() float64 {
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return 0.5
	}
	return m.Threshold
}

func (m *LogisticRegression) unmarshal(body json.RawMessage, classes []string, numFeatures int) error {
	if err := json.Unmarshal(body, m); err != nil {
		return errors.Wrap(err, "decode logistic regression")
	}
	if len(m.Weights) == 0 {
		return errors.New("logistic regression has no weights")
	}
	if numFeatures > 0 && numFeatures != len(m.Weights) {
		return errors.Newf("n_features is %d but model has %d weights", numFeatures, len(m.Weights))
	}
	if len(classes) != 2 {
		return errors.Newf("logistic regression must have 2 classes, got %d", len(classes))
	}
	m.classes = classes
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

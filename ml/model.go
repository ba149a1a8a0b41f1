package ml

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Classifier is a trained binary classifier evaluated on one encoded row.
// Implementations are read-only after loading and safe for concurrent use.
type Classifier interface {
	Predict(row []float64) (string, error)
	PredictProba(row []float64) ([]float64, error)
	NumFeatures() int
	Classes() []string
}

// Prediction is the outcome of a single inference.
// Probabilities holds [P(negative class), P(positive class)].
type Prediction struct {
	Label         string
	Probabilities [2]float64
	Cached        bool
}

// Predictor produces a Prediction for an encoded row.
type Predictor interface {
	Classify(row []float64) (Prediction, error)
}

// ModelPredictor runs a Classifier directly.
type ModelPredictor struct {
	model Classifier
}

func NewModelPredictor(model Classifier) *ModelPredictor {
	return &ModelPredictor{model: model}
}

func (p *ModelPredictor) Classify(row []float64) (Prediction, error) {
	return Classify(p.model, row)
}

// Classify calls Predict and PredictProba on the same row and packs the
// result. It fails when the classifier does not produce exactly two
// probabilities in [0,1] that sum to one.
func Classify(model Classifier, row []float64) (Prediction, error) {
	if model == nil {
		return Prediction{}, ErrModelNotLoaded
	}
	if len(row) != model.NumFeatures() {
		return Prediction{}, errors.Newf("row has %d features, model expects %d", len(row), model.NumFeatures())
	}
	label, err := model.Predict(row)
	if err != nil {
		return Prediction{}, errors.Wrap(err, "predict")
	}
	proba, err := model.PredictProba(row)
	if err != nil {
		return Prediction{}, errors.Wrap(err, "predict probabilities")
	}
	if len(proba) != 2 {
		return Prediction{}, errors.Newf("expected 2 class probabilities, got %d", len(proba))
	}
	for _, p := range proba {
		if !(p >= 0 && p <= 1) {
			return Prediction{}, errors.Newf("class probability %v outside [0,1]", p)
		}
	}
	if math.Abs(proba[0]+proba[1]-1) > probabilityTolerance {
		return Prediction{}, errors.Newf("class probabilities sum to %v", proba[0]+proba[1])
	}
	return Prediction{
		Label:         label,
		Probabilities: [2]float64{proba[0], proba[1]},
	}, nil
}

const probabilityTolerance = 1e-6

// ErrModelNotLoaded is returned when inference is attempted without a model.
var ErrModelNotLoaded = errors.New("model not loaded")

// DefaultClasses are the labels used when an artifact does not declare any.
func DefaultClasses() []string {
	return []string{"No", "Yes"}
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

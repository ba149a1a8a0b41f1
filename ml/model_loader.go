package ml

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
)

const (
	ModelTypeLogisticRegression = "logistic_regression"
	ModelTypeDecisionTree       = "decision_tree"
	ModelTypeRandomForest       = "random_forest"
)

// artifact is the on-disk envelope written by the training job.
type artifact struct {
	Type        string          `json:"type"`
	Classes     []string        `json:"classes"`
	NumFeatures int             `json:"n_features"`
	Model       json.RawMessage `json:"model"`
}

type modelDecoder interface {
	Classifier
	unmarshal(body json.RawMessage, classes []string, numFeatures int) error
}

// LoadModel reads a classifier artifact from path. modelType overrides the
// type recorded in the artifact when non-empty.
func LoadModel(modelType, path string) (Classifier, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model artifact %s", path)
	}
	var art artifact
	if err := json.Unmarshal(payload, &art); err != nil {
		return nil, errors.Wrapf(err, "decode model artifact %s", path)
	}
	if modelType == "" {
		modelType = art.Type
	}
	if len(art.Model) == 0 {
		return nil, errors.Newf("model artifact %s has no model body", path)
	}
	classes := art.Classes
	if len(classes) == 0 {
		classes = DefaultClasses()
	}

	var model modelDecoder
	switch modelType {
	case ModelTypeLogisticRegression:
		model = &LogisticRegression{}
	case ModelTypeDecisionTree:
		model = &DecisionTree{}
	case ModelTypeRandomForest:
		model = &RandomForest{}
	default:
		return nil, errors.Newf("unsupported model type %q", modelType)
	}
	if err := model.unmarshal(art.Model, classes, art.NumFeatures); err != nil {
		return nil, errors.Wrapf(err, "load %s", modelType)
	}
	return model, nil
}

// LoadModelForSchema loads a classifier and checks that its input
// dimensionality matches the feature schema.
func LoadModelForSchema(modelType, path string, schema *FeatureSchema) (Classifier, error) {
	model, err := LoadModel(modelType, path)
	if err != nil {
		return nil, err
	}
	if model.NumFeatures() != schema.Len() {
		return nil, errors.Newf("model expects %d features but schema declares %d columns", model.NumFeatures(), schema.Len())
	}
	return model, nil
}

package ml

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// RandomForest averages the class probabilities of its trees.
type RandomForest struct {
	trees       []*DecisionTree
	classes     []string
	numFeatures int
}

type randomForestBody struct {
	Trees []decisionTreeBody `json:"trees"`
}

func (rf *RandomForest) Predict(features []float64) (string, error) {
	proba, err := rf.PredictProba(features)
	if err != nil {
		return "", err
	}
	return rf.classes[argmax(proba)], nil
}

func (rf *RandomForest) PredictProba(features []float64) ([]float64, error) {
	if len(rf.trees) == 0 {
		return nil, errors.New("model not trained")
	}
	sum := make([]float64, len(rf.classes))
	for i, tree := range rf.trees {
		proba, err := tree.PredictProba(features)
		if err != nil {
			return nil, errors.Wrapf(err, "tree %d", i)
		}
		for j, p := range proba {
			sum[j] += p
		}
	}
	for j := range sum {
		sum[j] /= float64(len(rf.trees))
	}
	return sum, nil
}

func (rf *RandomForest) NumFeatures() int {
	return rf.numFeatures
}

func (rf *RandomForest) Classes() []string {
	return append([]string(nil), rf.classes...)
}

func (rf *RandomForest) unmarshal(body json.RawMessage, classes []string, numFeatures int) error {
	var payload randomForestBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.Wrap(err, "decode random forest")
	}
	if len(payload.Trees) == 0 {
		return errors.New("random forest has no trees")
	}
	rf.trees = make([]*DecisionTree, 0, len(payload.Trees))
	for i, t := range payload.Trees {
		tree, err := NewDecisionTree(t.Nodes, classes, numFeatures)
		if err != nil {
			return errors.Wrapf(err, "tree %d", i)
		}
		rf.trees = append(rf.trees, tree)
	}
	rf.classes = classes
	rf.numFeatures = numFeatures
	return nil
}

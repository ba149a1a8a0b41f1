package ml

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
)

// DecisionTree is a binary classification tree stored as a flat node array.
// Node 0 is the root. Rows go left when row[FeatureIdx] <= Threshold.
type DecisionTree struct {
	nodes       []TreeNode
	classes     []string
	numFeatures int
}

type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value"`
	IsLeaf     bool      `json:"is_leaf"`
}

type decisionTreeBody struct {
	Nodes []TreeNode `json:"nodes"`
}

func NewDecisionTree(nodes []TreeNode, classes []string, numFeatures int) (*DecisionTree, error) {
	dt := &DecisionTree{nodes: nodes, classes: classes, numFeatures: numFeatures}
	if err := dt.validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DecisionTree) Predict(features []float64) (string, error) {
	proba, err := dt.PredictProba(features)
	if err != nil {
		return "", err
	}
	return dt.classes[argmax(proba)], nil
}

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	leaf, err := dt.leaf(features)
	if err != nil {
		return nil, err
	}
	return normalize(leaf.Value), nil
}

func (dt *DecisionTree) NumFeatures() int {
	return dt.numFeatures
}

func (dt *DecisionTree) Classes() []string {
	return append([]string(nil), dt.classes...)
}

func (dt *DecisionTree) leaf(features []float64) (TreeNode, error) {
	if len(dt.nodes) == 0 {
		return TreeNode{}, errors.New("model not trained")
	}
	idx := 0
	// A valid tree reaches a leaf in at most len(nodes) steps.
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return TreeNode{}, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
	return TreeNode{}, errors.New("invalid tree state: cycle detected")
}

func (dt *DecisionTree) validate() error {
	if len(dt.nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	if len(dt.classes) != 2 {
		return errors.Newf("decision tree must have 2 classes, got %d", len(dt.classes))
	}
	if dt.numFeatures <= 0 {
		return errors.New("decision tree artifact must declare n_features")
	}
	for i, node := range dt.nodes {
		if node.IsLeaf {
			if len(node.Value) != len(dt.classes) {
				return errors.Newf("leaf %d has %d class values, want %d", i, len(node.Value), len(dt.classes))
			}
			total := 0.0
			for _, v := range node.Value {
				if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
					return errors.Newf("leaf %d has invalid class value %v", i, v)
				}
				total += v
			}
			if math.IsInf(total, 0) {
				return errors.Newf("leaf %d class values overflow", i)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= dt.numFeatures {
			return errors.Newf("node %d splits on feature %d outside [0,%d)", i, node.FeatureIdx, dt.numFeatures)
		}
		if node.LeftChild <= 0 || node.LeftChild >= len(dt.nodes) || node.RightChild <= 0 || node.RightChild >= len(dt.nodes) {
			return errors.Newf("node %d has out of range children", i)
		}
	}
	return nil
}

func (dt *DecisionTree) unmarshal(body json.RawMessage, classes []string, numFeatures int) error {
	var payload decisionTreeBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.Wrap(err, "decode decision tree")
	}
	dt.nodes = payload.Nodes
	dt.classes = classes
	dt.numFeatures = numFeatures
	return dt.validate()
}

// normalize turns leaf class counts (or fractions) into probabilities.
func normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, v := range values {
		out[i] = v / total
	}
	return out
}

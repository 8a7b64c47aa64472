package churnmodel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Tree is a fitted regression tree in sklearn's parallel-array layout.
// A node is a leaf when its left child is -1.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`  //nolint:tagliatelle
	ChildrenRight []int     `json:"children_right"` //nolint:tagliatelle
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// GradientBoosting is a binary gradient boosted trees classifier.
type GradientBoosting struct {
	Classes      [2]int  `json:"classes"`
	NFeatures    int     `json:"n_features"` //nolint:tagliatelle
	Init         float64 `json:"init"`
	LearningRate float64 `json:"learning_rate"` //nolint:tagliatelle
	Trees        []Tree  `json:"trees"`
}

func LoadClassifier(path string) (*GradientBoosting, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier error: %w", err)
	}

	var gb GradientBoosting
	if err := json.Unmarshal(b, &gb); err != nil {
		return nil, fmt.Errorf("%w: decode classifier: %w", ErrBadArtifact, err)
	}

	if err := gb.validate(); err != nil {
		return nil, err
	}

	return &gb, nil
}

func (gb *GradientBoosting) validate() error {
	if gb.NFeatures <= 0 {
		return fmt.Errorf("%w: n_features must be positive", ErrBadArtifact)
	}

	if len(gb.Trees) == 0 {
		return fmt.Errorf("%w: classifier has no trees", ErrBadArtifact)
	}

	for i, t := range gb.Trees {
		n := len(t.ChildrenLeft)
		if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("%w: tree %d: array length mismatch", ErrBadArtifact, i)
		}

		for node := 0; node < n; node++ {
			l, r := t.ChildrenLeft[node], t.ChildrenRight[node]
			if l == -1 {
				continue
			}

			// children always follow their parent, so traversal terminates
			if l <= node || l >= n || r <= node || r >= n {
				return fmt.Errorf("%w: tree %d node %d: child out of range", ErrBadArtifact, i, node)
			}

			if f := t.Feature[node]; f < 0 || f >= gb.NFeatures {
				return fmt.Errorf("%w: tree %d node %d: feature %d out of range", ErrBadArtifact, i, node, f)
			}
		}
	}

	return nil
}

// DecisionFunction returns the raw log-odds score for x.
func (gb *GradientBoosting) DecisionFunction(x []float64) (float64, error) {
	if len(x) != gb.NFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", gb.NFeatures, len(x))
	}

	var sum float64

	for _, t := range gb.Trees {
		node := 0
		for t.ChildrenLeft[node] != -1 {
			if x[t.Feature[node]] <= t.Threshold[node] {
				node = t.ChildrenLeft[node]
			} else {
				node = t.ChildrenRight[node]
			}
		}

		sum += t.Value[node]
	}

	return gb.Init + gb.LearningRate*sum, nil
}

func (gb *GradientBoosting) Predict(x []float64) (int, error) {
	raw, err := gb.DecisionFunction(x)
	if err != nil {
		return 0, err
	}

	if raw > 0 {
		return gb.Classes[1], nil
	}

	return gb.Classes[0], nil
}

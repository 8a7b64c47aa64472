package churnmodel

import (
	"fmt"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
)

type Model struct {
	Preprocessor *Preprocessor
	Classifier   *GradientBoosting
}

// Load reads both artifacts and checks that they fit together.
func Load(cfg config.Model) (Model, error) {
	p, err := LoadPreprocessor(cfg.PreprocessorPath)
	if err != nil {
		return Model{}, fmt.Errorf("load preprocessor error: %w", err)
	}

	c, err := LoadClassifier(cfg.ClassifierPath)
	if err != nil {
		return Model{}, fmt.Errorf("load classifier error: %w", err)
	}

	if p.Width() != c.NFeatures {
		return Model{}, fmt.Errorf("%w: preprocessor produces %d features, classifier expects %d",
			ErrBadArtifact, p.Width(), c.NFeatures)
	}

	return Model{Preprocessor: p, Classifier: c}, nil
}

package churnmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
)

const (
	KindStandardScaler = "standard_scaler"
	KindOneHot         = "one_hot"
	KindPassthrough    = "passthrough"
)

var ErrBadArtifact = errors.New("bad artifact")

// Transformer mirrors one entry of a fitted column transformer.
type Transformer struct {
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	Columns    []string   `json:"columns"`
	Mean       []float64  `json:"mean,omitempty"`
	Scale      []float64  `json:"scale,omitempty"`
	Categories [][]string `json:"categories,omitempty"`
}

type Preprocessor struct {
	Transformers []Transformer `json:"transformers"`

	width int
}

func LoadPreprocessor(path string) (*Preprocessor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preprocessor error: %w", err)
	}

	var p Preprocessor
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: decode preprocessor: %w", ErrBadArtifact, err)
	}

	if err := p.init(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *Preprocessor) init() error {
	if len(p.Transformers) == 0 {
		return fmt.Errorf("%w: preprocessor has no transformers", ErrBadArtifact)
	}

	p.width = 0

	for _, t := range p.Transformers {
		switch t.Kind {
		case KindStandardScaler:
			if len(t.Mean) != len(t.Columns) || len(t.Scale) != len(t.Columns) {
				return fmt.Errorf("%w: transformer %q: mean/scale length mismatch", ErrBadArtifact, t.Name)
			}

			p.width += len(t.Columns)
		case KindOneHot:
			if len(t.Categories) != len(t.Columns) {
				return fmt.Errorf("%w: transformer %q: categories length mismatch", ErrBadArtifact, t.Name)
			}

			for _, c := range t.Categories {
				p.width += len(c)
			}
		case KindPassthrough:
			p.width += len(t.Columns)
		default:
			return fmt.Errorf("%w: transformer %q: unknown kind %q", ErrBadArtifact, t.Name, t.Kind)
		}
	}

	return nil
}

// Width is the length of every vector Transform produces.
func (p *Preprocessor) Width() int {
	return p.width
}

func (p *Preprocessor) Transform(fr models.FeatureRecord) ([]float64, error) {
	out := make([]float64, 0, p.width)

	for _, t := range p.Transformers {
		for i, col := range t.Columns {
			v, ok := fr[col]
			if !ok {
				return nil, fmt.Errorf("%w: missing feature %s", models.ErrValidation, col)
			}

			switch t.Kind {
			case KindStandardScaler:
				x, err := numeric(col, v)
				if err != nil {
					return nil, err
				}

				scale := t.Scale[i]
				if scale == 0 {
					scale = 1
				}

				out = append(out, (x-t.Mean[i])/scale)
			case KindOneHot:
				cat := v.String()
				for _, c := range t.Categories[i] {
					if c == cat {
						out = append(out, 1)
					} else {
						out = append(out, 0)
					}
				}
			case KindPassthrough:
				x, err := numeric(col, v)
				if err != nil {
					return nil, err
				}

				out = append(out, x)
			}
		}
	}

	return out, nil
}

func numeric(col string, v models.Value) (float64, error) {
	switch v.Kind() {
	case models.KindNumber:
		x, _ := v.Float()

		return x, nil
	case models.KindBool:
		if b, _ := v.BoolValue(); b {
			return 1, nil
		}

		return 0, nil
	case models.KindString:
		s, _ := v.Str()

		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: feature %s must be numeric, got %q", models.ErrValidation, col, s)
		}

		return x, nil
	default:
		return 0, fmt.Errorf("%w: feature %s is null", models.ErrValidation, col)
	}
}

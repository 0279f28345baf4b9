package forecast

import (
	"context"
	"fmt"
	"math"

	"SalesCast/internal/domain/models"
	"SalesCast/pkg/util"

	"github.com/goccy/go-json"
)

// Feature kinds supported by the tree ensemble.
const (
	FeatureFloat       = "float"
	FeatureCategorical = "categorical"
)

type TreeFeature struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Split tests one feature. Float features split on value > Border;
// categorical features on equality with Category.
type Split struct {
	Feature  int      `json:"feature"`
	Border   *float64 `json:"border,omitempty"`
	Category *string  `json:"category,omitempty"`
}

// ObliviousTree applies the same split at every node of a level, so the leaf
// index is the bitmask of split outcomes (bit d for depth d).
type ObliviousTree struct {
	Splits     []Split   `json:"splits"`
	LeafValues []float64 `json:"leaf_values"`
}

type EnsembleParams struct {
	Features []TreeFeature   `json:"features"`
	Trees    []ObliviousTree `json:"trees"`
	Bias     float64         `json:"bias"`
	Scale    *float64        `json:"scale,omitempty"`
}

// ObliviousEnsemble is a gradient-boosted regressor over oblivious trees.
// Immutable after construction; safe for concurrent use.
type ObliviousEnsemble struct {
	features []TreeFeature
	trees    []ObliviousTree
	bias     float64
	scale    float64
}

// NewObliviousEnsemble validates the ensemble shape.
func NewObliviousEnsemble(p EnsembleParams) (*ObliviousEnsemble, error) {
	if len(p.Trees) == 0 {
		return nil, ErrNoTrees
	}
	for i, f := range p.Features {
		if f.Type != FeatureFloat && f.Type != FeatureCategorical {
			return nil, fmt.Errorf("feature %d (%s) type %q: %w", i, f.Name, f.Type, ErrShapeMismatch)
		}
	}
	for ti, t := range p.Trees {
		if want := 1 << len(t.Splits); len(t.LeafValues) != want {
			return nil, fmt.Errorf("tree %d: %d leaves for depth %d: %w", ti, len(t.LeafValues), len(t.Splits), ErrShapeMismatch)
		}
		for si, s := range t.Splits {
			if s.Feature < 0 || s.Feature >= len(p.Features) {
				return nil, fmt.Errorf("tree %d split %d: feature %d out of range: %w", ti, si, s.Feature, ErrShapeMismatch)
			}
			kind := p.Features[s.Feature].Type
			if (kind == FeatureFloat && s.Border == nil) || (kind == FeatureCategorical && s.Category == nil) {
				return nil, fmt.Errorf("tree %d split %d: condition does not match %s feature: %w", ti, si, kind, ErrShapeMismatch)
			}
		}
	}
	scale := 1.0
	if p.Scale != nil {
		scale = *p.Scale
	}
	return &ObliviousEnsemble{features: p.Features, trees: p.Trees, bias: p.Bias, scale: scale}, nil
}

// DecodeObliviousEnsemble parses a JSON artifact into a regressor.
func DecodeObliviousEnsemble(b []byte) (*ObliviousEnsemble, error) {
	var p EnsembleParams
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode ensemble: %w", err)
	}
	return NewObliviousEnsemble(p)
}

// Predict scores one preprocessed record. A missing float feature is treated
// as NaN, which fails every border test.
func (e *ObliviousEnsemble) Predict(_ context.Context, rec models.Record) (float64, error) {
	nums := make([]float64, len(e.features))
	cats := make([]string, len(e.features))
	for i, f := range e.features {
		v, present := rec[f.Name]
		switch f.Type {
		case FeatureFloat:
			if !present || v == nil {
				nums[i] = math.NaN()
				continue
			}
			x, ok := util.ToFloat(v)
			if !ok {
				return 0, fmt.Errorf("%s=%v (%T): %w", f.Name, v, v, ErrFeatureType)
			}
			nums[i] = x
		case FeatureCategorical:
			s, _ := util.FormatValue(v)
			cats[i] = s
		}
	}

	sum := 0.0
	for _, t := range e.trees {
		idx := 0
		for d, s := range t.Splits {
			var hit bool
			if s.Border != nil {
				hit = nums[s.Feature] > *s.Border
			} else {
				hit = cats[s.Feature] == *s.Category
			}
			if hit {
				idx |= 1 << d
			}
		}
		sum += t.LeafValues[idx]
	}
	return e.bias + e.scale*sum, nil
}

// FeatureNames lists the inputs the ensemble reads, in declaration order.
func (e *ObliviousEnsemble) FeatureNames() []string {
	out := make([]string, 0, len(e.features))
	for _, f := range e.features {
		out = append(out, f.Name)
	}
	return out
}

package features

import (
	"fmt"

	"SalesCast/internal/domain/models"
)

// Pipeline applies its steps in order.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// NewPreprocessor builds the standard four-step pipeline around a fitted table.
func NewPreprocessor(table *AOVTable, drop []string) *Pipeline {
	return NewPipeline(
		NewTypeNormalizer(),
		NewCalendarExtractor(),
		NewAOVEnricher(table),
		NewFeaturePruner(drop),
	)
}

func (p *Pipeline) Name() string { return "pipeline" }

func (p *Pipeline) Transform(rec models.Record) (models.Record, error) {
	out := rec
	for _, s := range p.steps {
		next, err := s.Transform(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Steps returns the step names in application order.
func (p *Pipeline) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name())
	}
	return names
}

// PreprocessorArtifact is the persisted form of a fitted preprocessor.
type PreprocessorArtifact struct {
	Version    int       `json:"version"`
	AOV        *AOVTable `json:"aov"`
	DropFields []string  `json:"drop_cols,omitempty"`
}

// Build validates the artifact and assembles its pipeline.
func (a *PreprocessorArtifact) Build() (*Pipeline, error) {
	if err := a.AOV.Validate(); err != nil {
		return nil, fmt.Errorf("preprocessor: %w", err)
	}
	return NewPreprocessor(a.AOV, a.DropFields), nil
}

var _ Transformer = (*Pipeline)(nil)

// NormalizeAll normalizes a batch of training rows.
func NormalizeAll(rows []models.Record) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Normalize(r))
	}
	return out
}

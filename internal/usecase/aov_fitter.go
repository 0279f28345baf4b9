package usecase

import (
	"context"
	"fmt"

	domrepo "SalesCast/internal/domain/repository"
	"SalesCast/internal/services/features"

	"github.com/goccy/go-json"
)

// AOVFitter runs the offline fitting pass: read history, normalize, fit, persist.
type AOVFitter struct {
	source domrepo.TrainingSource
	store  domrepo.ArtifactStore
}

func NewAOVFitter(source domrepo.TrainingSource, store domrepo.ArtifactStore) *AOVFitter {
	return &AOVFitter{source: source, store: store}
}

// FitResult summarises one fitting pass.
type FitResult struct {
	Rows  int
	Table *features.AOVTable
}

// Fit writes a preprocessor artifact under name.
func (f *AOVFitter) Fit(ctx context.Context, name string, groupFields, dropFields []string) (FitResult, error) {
	rows, err := f.source.Records(ctx)
	if err != nil {
		return FitResult{}, fmt.Errorf("read training rows: %w", err)
	}
	table, err := features.FitAOV(features.NormalizeAll(rows), groupFields)
	if err != nil {
		return FitResult{}, fmt.Errorf("fit aov: %w", err)
	}
	b, err := json.MarshalIndent(&features.PreprocessorArtifact{
		Version:    1,
		AOV:        table,
		DropFields: dropFields,
	}, "", "  ")
	if err != nil {
		return FitResult{}, fmt.Errorf("encode preprocessor: %w", err)
	}
	if err := f.store.Save(ctx, name, b); err != nil {
		return FitResult{}, fmt.Errorf("save preprocessor: %w", err)
	}
	return FitResult{Rows: len(rows), Table: table}, nil
}

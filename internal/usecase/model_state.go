package usecase

import (
	"context"
	"fmt"

	domrepo "SalesCast/internal/domain/repository"
	domsvc "SalesCast/internal/domain/service"
	"SalesCast/internal/services/features"
	"SalesCast/internal/services/forecast"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// ArtifactNames identifies the four artifacts that make up a model state.
type ArtifactNames struct {
	Preprocessor string
	TimeSeries   string
	Tabular      string
	Residual     string
}

// DefaultArtifactNames returns the conventional file names.
func DefaultArtifactNames() ArtifactNames {
	return ArtifactNames{
		Preprocessor: "preprocessor.json",
		TimeSeries:   "sarimax.json",
		Tabular:      "catboost.json",
		Residual:     "residual.json",
	}
}

// ModelState is the process-wide, read-only inference state. It is built once
// at startup and shared by every request; nothing mutates it afterwards.
type ModelState struct {
	Preprocessor domsvc.Preprocessor
	TimeSeries   domsvc.TimeSeriesForecaster
	Regressor    domsvc.Regressor
	Residual     forecast.ResidualBand
}

// LoadModelState fetches and decodes all artifacts concurrently. Any failure
// aborts the load; callers decide whether to continue degraded.
func LoadModelState(ctx context.Context, store domrepo.ArtifactStore, names ArtifactNames) (*ModelState, error) {
	var (
		prep *features.Pipeline
		ts   *forecast.SARIMAX
		reg  *forecast.ObliviousEnsemble
		band forecast.ResidualBand
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := store.Load(gctx, names.Preprocessor)
		if err != nil {
			return fmt.Errorf("load preprocessor: %w", err)
		}
		var a features.PreprocessorArtifact
		if err := json.Unmarshal(b, &a); err != nil {
			return fmt.Errorf("decode preprocessor: %w", err)
		}
		prep, err = a.Build()
		return err
	})
	g.Go(func() error {
		b, err := store.Load(gctx, names.TimeSeries)
		if err != nil {
			return fmt.Errorf("load time-series model: %w", err)
		}
		ts, err = forecast.DecodeSARIMAX(b)
		return err
	})
	g.Go(func() error {
		b, err := store.Load(gctx, names.Tabular)
		if err != nil {
			return fmt.Errorf("load tabular model: %w", err)
		}
		reg, err = forecast.DecodeObliviousEnsemble(b)
		return err
	})
	g.Go(func() error {
		b, err := store.Load(gctx, names.Residual)
		if err != nil {
			return fmt.Errorf("load residual band: %w", err)
		}
		band, err = forecast.DecodeResidualBand(b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ModelState{
		Preprocessor: prep,
		TimeSeries:   ts,
		Regressor:    reg,
		Residual:     band,
	}, nil
}

package service

import (
	"context"

	"SalesCast/internal/domain/models"
)

// Preprocessor turns a raw request record into model-ready features.
type Preprocessor interface {
	Transform(rec models.Record) (models.Record, error)
}

// TimeSeriesForecaster produces a one-step-ahead forecast with a (1-alpha) interval.
type TimeSeriesForecaster interface {
	Forecast(ctx context.Context, exog models.ExogFrame, alpha float64) (models.Interval, error)
}

// Regressor produces a point prediction for one preprocessed record.
type Regressor interface {
	Predict(ctx context.Context, rec models.Record) (float64, error)
}

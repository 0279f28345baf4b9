// Package features implements the record preprocessing steps applied before the
// tabular regressor: type normalization, calendar features, AOV enrichment and pruning.
package features

import (
	"errors"

	"SalesCast/internal/domain/models"
)

var (
	ErrNotFitted     = errors.New("aov enricher has no fitted statistics")
	ErrNoValidRatios = errors.New("no defined sales/order ratio in training data")
	ErrInvalidTable  = errors.New("invalid aov statistics table")
)

// Transformer is one preprocessing step: transform a record, return a record.
// Implementations must not mutate their input.
type Transformer interface {
	Name() string
	Transform(rec models.Record) (models.Record, error)
}

// Package forecast holds the fitted predictive models served by the API: a
// regression-with-SARMA-errors forecaster and an oblivious-tree regressor.
package forecast

import "errors"

var (
	ErrShapeMismatch    = errors.New("model parameters have inconsistent shape")
	ErrHistoryTooShort  = errors.New("fitted history is shorter than the largest lag")
	ErrUnknownRegressor = errors.New("unknown exogenous regressor")
	ErrFeatureType      = errors.New("feature value has unexpected type")
	ErrInvalidAlpha     = errors.New("alpha must be in (0, 1)")
	ErrNoTrees          = errors.New("ensemble has no trees")
)

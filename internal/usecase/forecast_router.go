package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"SalesCast/internal/domain/models"
	domrepo "SalesCast/internal/domain/repository"
	"SalesCast/pkg/util"
)

const (
	// DefaultZ scales the residual std into the tabular 95% half-width.
	DefaultZ = 1.96
	// DefaultAlpha is passed to the time-series interval estimator.
	DefaultAlpha = 0.05
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrModelsUnavailable = errors.New("models are not loaded")
	ErrInference         = errors.New("inference failed")

	errNonFinite = errors.New("non-finite result")
)

// Route is the predictive path chosen for a request.
type Route int

const (
	RouteInvalid Route = iota
	// RouteTimeSeriesDefault is a date-only query; both regressors default to 0.
	RouteTimeSeriesDefault
	// RouteTimeSeriesExog takes Holiday/Discount from the request.
	RouteTimeSeriesExog
	// RouteTabular runs the full preprocessing pipeline and the regressor.
	RouteTabular
)

func (r Route) String() string {
	switch r {
	case RouteTimeSeriesDefault:
		return "timeseries_default"
	case RouteTimeSeriesExog:
		return "timeseries_exog"
	case RouteTabular:
		return "tabular"
	default:
		return "invalid"
	}
}

// RouteFor picks a path by field count. The arity thresholds are part of the
// public contract: a store record with only 2-3 fields goes to the time-series path.
func RouteFor(req models.Record) Route {
	switch n := len(req); {
	case n == 1:
		return RouteTimeSeriesDefault
	case n >= 2 && n <= 3:
		return RouteTimeSeriesExog
	case n > 3:
		return RouteTabular
	default:
		return RouteInvalid
	}
}

// ForecastRouter dispatches requests over an immutable ModelState.
type ForecastRouter struct {
	state   *ModelState
	metrics domrepo.Metrics
	alpha   float64
	z       float64
}

type RouterOption func(*ForecastRouter)

// WithAlpha sets the time-series interval level.
func WithAlpha(alpha float64) RouterOption {
	return func(r *ForecastRouter) {
		if alpha > 0 && alpha < 1 {
			r.alpha = alpha
		}
	}
}

// WithZ sets the multiplier applied to the tabular residual std.
func WithZ(z float64) RouterOption {
	return func(r *ForecastRouter) {
		if z > 0 {
			r.z = z
		}
	}
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m domrepo.Metrics) RouterOption {
	return func(r *ForecastRouter) { r.metrics = m }
}

// NewForecastRouter wraps state, which may be nil when startup loading failed.
func NewForecastRouter(state *ModelState, opts ...RouterOption) *ForecastRouter {
	r := &ForecastRouter{state: state, alpha: DefaultAlpha, z: DefaultZ}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics != nil {
		r.metrics.SetModelsLoaded(state != nil)
	}
	return r
}

// Ready reports whether models are loaded.
func (r *ForecastRouter) Ready() bool { return r.state != nil }

// Predict routes one decoded request. Every failure is returned as an error
// wrapping ErrInvalidInput, ErrModelsUnavailable or ErrInference.
func (r *ForecastRouter) Predict(ctx context.Context, req models.Record) (p models.Prediction, err error) {
	route := RouteFor(req)
	start := time.Now()
	defer func() {
		if r.metrics == nil {
			return
		}
		outcome := "ok"
		if err != nil {
			outcome = outcomeOf(err)
		}
		r.metrics.RecordPrediction(route.String(), outcome)
		r.metrics.RecordLatency(route.String(), time.Since(start).Seconds())
	}()

	if route == RouteInvalid {
		return models.Prediction{}, ErrInvalidInput
	}
	if r.state == nil {
		return models.Prediction{}, ErrModelsUnavailable
	}

	switch route {
	case RouteTimeSeriesDefault:
		return r.predictTimeSeries(ctx, dateKey(req), models.ExogFrame{})
	case RouteTimeSeriesExog:
		exog, err := exogFrom(req)
		if err != nil {
			return models.Prediction{}, fmt.Errorf("%w: %w", ErrInference, err)
		}
		return r.predictTimeSeries(ctx, dateKey(req), exog)
	default:
		return r.predictTabular(ctx, req)
	}
}

func (r *ForecastRouter) predictTimeSeries(ctx context.Context, date string, exog models.ExogFrame) (models.Prediction, error) {
	iv, err := r.state.TimeSeries.Forecast(ctx, exog, r.alpha)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: time-series forecast: %w", ErrInference, err)
	}
	if !finite(iv.Mean, iv.Lower, iv.Upper) {
		return models.Prediction{}, fmt.Errorf("%w: time-series forecast: %w (mean=%v lower=%v upper=%v)",
			ErrInference, errNonFinite, iv.Mean, iv.Lower, iv.Upper)
	}
	return models.Prediction{
		Kind:    models.KindTimeSeries,
		Model:   models.ModelSARIMAX,
		DateKey: date,
		Value:   iv.Mean,
		Lower:   iv.Lower,
		Upper:   iv.Upper,
	}, nil
}

func (r *ForecastRouter) predictTabular(ctx context.Context, req models.Record) (models.Prediction, error) {
	feats, err := r.state.Preprocessor.Transform(req)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: preprocess: %w", ErrInference, err)
	}
	pred, err := r.state.Regressor.Predict(ctx, feats)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: predict: %w", ErrInference, err)
	}
	margin := r.state.Residual.Margin(r.z)
	if !finite(pred, pred-margin, pred+margin) {
		return models.Prediction{}, fmt.Errorf("%w: predict: %w (prediction=%v margin=%v)",
			ErrInference, errNonFinite, pred, margin)
	}
	return models.Prediction{
		Kind:     models.KindTabular,
		Model:    models.ModelCatBoost,
		Value:    pred,
		Lower:    pred - margin,
		Upper:    pred + margin,
		CIMethod: models.CIMethodResidualStd,
	}, nil
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// dateKey is the requested date as sent, or "" when absent.
func dateKey(req models.Record) string {
	s, _ := util.FormatValue(req[models.FieldDate])
	return s
}

func exogFrom(req models.Record) (models.ExogFrame, error) {
	h, err := exogValue(req, models.FieldHoliday)
	if err != nil {
		return models.ExogFrame{}, err
	}
	d, err := exogValue(req, models.FieldDiscount)
	if err != nil {
		return models.ExogFrame{}, err
	}
	return models.ExogFrame{Holiday: h, Discount: d}, nil
}

func exogValue(req models.Record, field string) (float64, error) {
	v, ok := req[field]
	if !ok || v == nil {
		return 0, nil
	}
	switch v {
	case "Yes":
		return 1, nil
	case "No":
		return 0, nil
	}
	f, ok := util.ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("could not convert %s=%v to float", field, v)
	}
	return f, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrModelsUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

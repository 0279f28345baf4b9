package usecase

import (
	"context"
	"math"
	"testing"

	"SalesCast/internal/domain/models"
	"SalesCast/internal/services/forecast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const z95 = 1.959963984540054

func loadedRouter(t *testing.T, opts ...RouterOption) *ForecastRouter {
	t.Helper()
	state, err := LoadModelState(context.Background(), fullStore(), DefaultArtifactNames())
	require.NoError(t, err)
	return NewForecastRouter(state, opts...)
}

func TestRouteFor(t *testing.T) {
	testData := map[string]struct {
		req      models.Record
		expected Route
	}{
		"empty":       {models.Record{}, RouteInvalid},
		"date only":   {models.Record{"Date": "2019-01-01"}, RouteTimeSeriesDefault},
		"any single":  {models.Record{"Store_id": 1}, RouteTimeSeriesDefault},
		"two fields":  {models.Record{"Date": "2019-01-01", "Holiday": 1}, RouteTimeSeriesExog},
		"three":       {models.Record{"Date": "2019-01-01", "Holiday": 1, "Discount": "Yes"}, RouteTimeSeriesExog},
		"store shape": {models.Record{"Store_id": 1, "Store_Type": "S1", "Holiday": 1}, RouteTimeSeriesExog},
		"four":        {models.Record{"Date": "x", "Holiday": 1, "Discount": "Yes", "Store_id": 1}, RouteTabular},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, RouteFor(td.req))
		})
	}
}

func TestForecastRouterTimeSeries(t *testing.T) {
	r := loadedRouter(t)
	testData := map[string]struct {
		req     models.Record
		dateKey string
		mean    float64
	}{
		"date only":        {models.Record{"Date": "2019-01-01"}, "2019-01-01", 100},
		"single non-date":  {models.Record{"Holiday": 1}, "", 100},
		"holiday":          {models.Record{"Date": "01-05-2019", "Holiday": 1}, "01-05-2019", 120},
		"holiday discount": {models.Record{"Date": "2019-01-01", "Holiday": 1, "Discount": "Yes"}, "2019-01-01", 130},
		"discount no":      {models.Record{"Date": "2019-01-01", "Discount": "No"}, "2019-01-01", 100},
		"numeric discount": {models.Record{"Date": "2019-01-01", "Discount": 1}, "2019-01-01", 110},
		"missing date":     {models.Record{"Holiday": 0, "Discount": "Yes"}, "", 110},
		"null holiday":     {models.Record{"Date": "2019-01-01", "Holiday": nil}, "2019-01-01", 100},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p, err := r.Predict(context.Background(), td.req)
			require.NoError(t, err)
			assert.Equal(t, models.KindTimeSeries, p.Kind)
			assert.Equal(t, models.ModelSARIMAX, p.Model)
			assert.Equal(t, td.dateKey, p.DateKey)
			assert.InDelta(t, td.mean, p.Value, 1e-9)
			assert.InDelta(t, td.mean-2*z95, p.Lower, 1e-9)
			assert.InDelta(t, td.mean+2*z95, p.Upper, 1e-9)
			assert.LessOrEqual(t, p.Lower, p.Value)
			assert.LessOrEqual(t, p.Value, p.Upper)
		})
	}
}

func TestForecastRouterTabular(t *testing.T) {
	r := loadedRouter(t)
	req := models.Record{
		"Store_id":      1,
		"Store_Type":    "S1",
		"Location_Type": "L1",
		"Region_Code":   "R1",
		"Date":          "2019-01-01",
		"Holiday":       1,
		"Discount":      "Yes",
	}
	p, err := r.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.KindTabular, p.Kind)
	assert.Equal(t, models.ModelCatBoost, p.Model)
	assert.Equal(t, models.CIMethodResidualStd, p.CIMethod)
	assert.InDelta(t, 102, p.Value, 1e-9)
	assert.InDelta(t, 102-19.6, p.Lower, 1e-9)
	assert.InDelta(t, 102+19.6, p.Upper, 1e-9)
	assert.InDelta(t, p.Value-p.Lower, p.Upper-p.Value, 1e-9)

	// unseen store type falls back to the global AOV (45 > 42)
	req["Store_Type"] = "S9"
	p, err = r.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 104, p.Value, 1e-9)
	assert.Equal(t, "S9", req["Store_Type"], "request must not be mutated")
}

func TestForecastRouterCustomZ(t *testing.T) {
	r := loadedRouter(t, WithZ(1), WithAlpha(2))
	p, err := r.Predict(context.Background(), models.Record{
		"Store_id": 1, "Store_Type": "S1", "Holiday": 0, "Discount": "No",
	})
	require.NoError(t, err)
	assert.InDelta(t, 10, p.Upper-p.Value, 1e-9)
	assert.Equal(t, DefaultAlpha, r.alpha)
}

func TestForecastRouterErrors(t *testing.T) {
	loaded := loadedRouter(t)
	degraded := NewForecastRouter(nil)

	testData := map[string]struct {
		router   *ForecastRouter
		req      models.Record
		expected error
	}{
		"empty loaded":     {loaded, models.Record{}, ErrInvalidInput},
		"empty degraded":   {degraded, models.Record{}, ErrInvalidInput},
		"nil degraded":     {degraded, nil, ErrInvalidInput},
		"date degraded":    {degraded, models.Record{"Date": "2019-01-01"}, ErrModelsUnavailable},
		"tabular degraded": {degraded, models.Record{"a": 1, "b": 2, "c": 3, "d": 4}, ErrModelsUnavailable},
		"bad holiday":      {loaded, models.Record{"Date": "2019-01-01", "Holiday": "maybe"}, ErrInference},
		"bad discount":     {loaded, models.Record{"Date": "2019-01-01", "Discount": []any{1}}, ErrInference},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := td.router.Predict(context.Background(), td.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, td.expected)
		})
	}
	assert.True(t, loaded.Ready())
	assert.False(t, degraded.Ready())
}

type constForecaster struct{ iv models.Interval }

func (f constForecaster) Forecast(context.Context, models.ExogFrame, float64) (models.Interval, error) {
	return f.iv, nil
}

type constRegressor float64

func (r constRegressor) Predict(context.Context, models.Record) (float64, error) { return float64(r), nil }

type passthrough struct{}

func (passthrough) Transform(rec models.Record) (models.Record, error) { return rec, nil }

func TestForecastRouterNonFiniteResults(t *testing.T) {
	inf := math.Inf(1)
	tabular := models.Record{"a": 1, "b": 2, "c": 3, "d": 4}

	testData := map[string]struct {
		state *ModelState
		req   models.Record
	}{
		"infinite forecast": {
			&ModelState{TimeSeries: constForecaster{models.Interval{Mean: inf, Lower: inf, Upper: inf}}},
			models.Record{"Date": "2019-01-01"},
		},
		"nan bound": {
			&ModelState{TimeSeries: constForecaster{models.Interval{Mean: 1, Lower: math.NaN(), Upper: 2}}},
			models.Record{"Date": "2019-01-01", "Holiday": 1},
		},
		"infinite prediction": {
			&ModelState{Preprocessor: passthrough{}, Regressor: constRegressor(inf), Residual: forecast.ResidualBand{ResidualStd: 1}},
			tabular,
		},
		"infinite margin": {
			&ModelState{Preprocessor: passthrough{}, Regressor: constRegressor(1), Residual: forecast.ResidualBand{ResidualStd: inf}},
			tabular,
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewForecastRouter(td.state).Predict(context.Background(), td.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInference)
			assert.ErrorContains(t, err, "non-finite")
		})
	}
}

func TestForecastRouterMetrics(t *testing.T) {
	m := newRecordingMetrics()
	r := loadedRouter(t, WithMetrics(m))
	require.NotNil(t, m.loaded)
	assert.True(t, *m.loaded)

	_, err := r.Predict(context.Background(), models.Record{"Date": "2019-01-01"})
	require.NoError(t, err)
	_, err = r.Predict(context.Background(), models.Record{})
	require.Error(t, err)

	assert.Equal(t, 1, m.predictions["timeseries_default/ok"])
	assert.Equal(t, 1, m.predictions["invalid/invalid"])
	assert.Equal(t, 2, m.latencies)

	NewForecastRouter(nil, WithMetrics(m))
	assert.False(t, *m.loaded)
}

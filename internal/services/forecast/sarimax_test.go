package forecast

import (
	"context"
	"math"
	"testing"

	"SalesCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const z95 = 1.959963984540054

func TestSARIMAXForecast(t *testing.T) {
	tol := 1e-9
	testData := map[string]struct {
		params SARIMAXParams
		exog   models.ExogFrame
		mean   float64
		half   float64
	}{
		"arma with exog": {
			params: SARIMAXParams{
				Intercept:   100,
				ExogNames:   []string{"holiday", "discount"},
				ExogCoef:    []float64{20, 10},
				AR:          []float64{0.5},
				MA:          []float64{0.2},
				Residuals:   []float64{1, 4},
				Innovations: []float64{2},
				Sigma2:      4,
			},
			exog: models.ExogFrame{Holiday: 1},
			mean: 100 + 20 + 0.5*4 + 0.2*2,
			half: z95 * 2,
		},
		"seasonal ar": {
			params: SARIMAXParams{
				Intercept:      50,
				SeasonalAR:     []float64{0.1},
				SeasonalPeriod: 7,
				Residuals:      []float64{30, 0, 0, 0, 0, 0, 0},
				Sigma2:         1,
			},
			mean: 50 + 0.1*30,
			half: z95,
		},
		"differenced": {
			params: SARIMAXParams{
				Intercept: 10,
				ExogNames: []string{"discount"},
				ExogCoef:  []float64{5},
				AR:        []float64{0.5},
				Diff:      1,
				Residuals: []float64{1, 3, 6},
				Sigma2:    0,
			},
			exog: models.ExogFrame{Discount: 1},
			mean: 10 + 5 + 6 + 0.5*3,
			half: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := NewSARIMAX(td.params)
			require.NoError(t, err)
			got, err := m.Forecast(context.Background(), td.exog, 0.05)
			require.NoError(t, err)
			assert.InDelta(t, td.mean, got.Mean, tol)
			assert.InDelta(t, td.mean-td.half, got.Lower, tol)
			assert.InDelta(t, td.mean+td.half, got.Upper, tol)
		})
	}
}

func TestSARIMAXValidation(t *testing.T) {
	testData := map[string]struct {
		params SARIMAXParams
		err    error
	}{
		"coef mismatch":      {SARIMAXParams{ExogNames: []string{"holiday"}}, ErrShapeMismatch},
		"negative variance":  {SARIMAXParams{Sigma2: -1}, ErrShapeMismatch},
		"bad diff":           {SARIMAXParams{Diff: 2}, ErrShapeMismatch},
		"seasonal no period": {SARIMAXParams{SeasonalMA: []float64{0.1}}, ErrShapeMismatch},
		"short ar history":   {SARIMAXParams{AR: []float64{0.1, 0.2}, Residuals: []float64{1}}, ErrHistoryTooShort},
		"short ma history":   {SARIMAXParams{MA: []float64{0.1}}, ErrHistoryTooShort},
		"diff no history":    {SARIMAXParams{Diff: 1}, ErrHistoryTooShort},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewSARIMAX(td.params)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestSARIMAXUnknownRegressor(t *testing.T) {
	m, err := NewSARIMAX(SARIMAXParams{ExogNames: []string{"temperature"}, ExogCoef: []float64{1}})
	require.NoError(t, err)
	_, err = m.Forecast(context.Background(), models.ExogFrame{}, 0.05)
	assert.ErrorIs(t, err, ErrUnknownRegressor)

	_, err = m.Forecast(context.Background(), models.ExogFrame{}, 0)
	assert.ErrorIs(t, err, ErrInvalidAlpha)
}

func TestDecodeSARIMAX(t *testing.T) {
	m, err := DecodeSARIMAX([]byte(`{"intercept": 3, "exog_names": ["holiday"], "exog_coef": [2], "sigma2": 1}`))
	require.NoError(t, err)
	got, err := m.Forecast(context.Background(), models.ExogFrame{Holiday: 1}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Mean)
	assert.InDelta(t, got.Upper-got.Mean, got.Mean-got.Lower, 1e-12)
	assert.False(t, math.IsNaN(got.Upper))

	_, err = DecodeSARIMAX([]byte(`{`))
	assert.Error(t, err)
}

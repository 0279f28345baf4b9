package forecast

import (
	"context"
	"fmt"
	"math"

	"SalesCast/internal/domain/models"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// SARIMAXParams is the persisted state of a fitted regression with seasonal
// ARMA errors: y_t = c + beta.x_t + u_t, where u (or its first difference) is SARMA.
type SARIMAXParams struct {
	Intercept      float64   `json:"intercept"`
	ExogNames      []string  `json:"exog_names"`
	ExogCoef       []float64 `json:"exog_coef"`
	AR             []float64 `json:"ar"`
	MA             []float64 `json:"ma"`
	SeasonalAR     []float64 `json:"seasonal_ar"`
	SeasonalMA     []float64 `json:"seasonal_ma"`
	SeasonalPeriod int       `json:"seasonal_period"`
	Diff           int       `json:"diff"`
	// Residuals are regression residuals u_t, newest last.
	Residuals []float64 `json:"residuals"`
	// Innovations are one-step forecast errors, newest last.
	Innovations []float64 `json:"innovations"`
	Sigma2      float64   `json:"sigma2"`
}

// SARIMAX produces one-step-ahead forecasts from fitted parameters.
// It holds no mutable state and is safe for concurrent use.
type SARIMAX struct {
	p SARIMAXParams
	// w is the series the ARMA recursion runs on: u, or diff(u) when Diff == 1.
	w []float64
}

// NewSARIMAX validates params and returns a forecaster.
func NewSARIMAX(p SARIMAXParams) (*SARIMAX, error) {
	if len(p.ExogNames) != len(p.ExogCoef) {
		return nil, fmt.Errorf("%d exog names and %d coefficients: %w", len(p.ExogNames), len(p.ExogCoef), ErrShapeMismatch)
	}
	if p.Diff != 0 && p.Diff != 1 {
		return nil, fmt.Errorf("diff=%d unsupported: %w", p.Diff, ErrShapeMismatch)
	}
	if p.Sigma2 < 0 || math.IsNaN(p.Sigma2) {
		return nil, fmt.Errorf("sigma2=%v: %w", p.Sigma2, ErrShapeMismatch)
	}
	if (len(p.SeasonalAR) > 0 || len(p.SeasonalMA) > 0) && p.SeasonalPeriod < 1 {
		return nil, fmt.Errorf("seasonal terms without period: %w", ErrShapeMismatch)
	}

	w := p.Residuals
	if p.Diff == 1 {
		if len(p.Residuals) == 0 {
			return nil, fmt.Errorf("differenced model needs residual history: %w", ErrHistoryTooShort)
		}
		w = make([]float64, 0, len(p.Residuals)-1)
		for i := 1; i < len(p.Residuals); i++ {
			w = append(w, p.Residuals[i]-p.Residuals[i-1])
		}
	}

	if need := maxLag(len(p.AR), len(p.SeasonalAR), p.SeasonalPeriod); len(w) < need {
		return nil, fmt.Errorf("ar needs %d, have %d: %w", need, len(w), ErrHistoryTooShort)
	}
	if need := maxLag(len(p.MA), len(p.SeasonalMA), p.SeasonalPeriod); len(p.Innovations) < need {
		return nil, fmt.Errorf("ma needs %d, have %d: %w", need, len(p.Innovations), ErrHistoryTooShort)
	}
	return &SARIMAX{p: p, w: w}, nil
}

// DecodeSARIMAX parses a JSON artifact into a forecaster.
func DecodeSARIMAX(b []byte) (*SARIMAX, error) {
	var p SARIMAXParams
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode sarimax: %w", err)
	}
	return NewSARIMAX(p)
}

func maxLag(order, seasonalOrder, period int) int {
	return max(order, seasonalOrder*period)
}

// lagged returns xs[len-k] (k >= 1), the value k steps before the forecast origin.
func lagged(xs []float64, k int) float64 {
	return xs[len(xs)-k]
}

// Forecast returns the one-step-ahead mean and its (1-alpha) interval.
func (m *SARIMAX) Forecast(_ context.Context, exog models.ExogFrame, alpha float64) (models.Interval, error) {
	if alpha <= 0 || alpha >= 1 {
		return models.Interval{}, ErrInvalidAlpha
	}

	x := make([]float64, len(m.p.ExogNames))
	for i, name := range m.p.ExogNames {
		v, ok := exog.Value(name)
		if !ok {
			return models.Interval{}, fmt.Errorf("%q: %w", name, ErrUnknownRegressor)
		}
		x[i] = v
	}

	var arma float64
	for i, phi := range m.p.AR {
		arma += phi * lagged(m.w, i+1)
	}
	for k, phi := range m.p.SeasonalAR {
		arma += phi * lagged(m.w, (k+1)*m.p.SeasonalPeriod)
	}
	for j, theta := range m.p.MA {
		arma += theta * lagged(m.p.Innovations, j+1)
	}
	for k, theta := range m.p.SeasonalMA {
		arma += theta * lagged(m.p.Innovations, (k+1)*m.p.SeasonalPeriod)
	}

	mean := m.p.Intercept + arma
	if len(x) > 0 {
		mean += floats.Dot(m.p.ExogCoef, x)
	}
	if m.p.Diff == 1 {
		mean += lagged(m.p.Residuals, 1)
	}

	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	half := z * math.Sqrt(m.p.Sigma2)
	return models.Interval{Mean: mean, Lower: mean - half, Upper: mean + half}, nil
}

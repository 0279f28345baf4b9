package forecast

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// ResidualBand is the persisted residual standard deviation of the tabular model.
type ResidualBand struct {
	ResidualStd float64 `json:"residual_std"`
}

// DecodeResidualBand accepts either {"residual_std": x} or a bare number.
func DecodeResidualBand(b []byte) (ResidualBand, error) {
	var band ResidualBand
	if err := json.Unmarshal(b, &band); err != nil {
		var bare float64
		if err2 := json.Unmarshal(b, &bare); err2 != nil {
			return band, fmt.Errorf("decode residual: %w", err)
		}
		band.ResidualStd = bare
	}
	if band.ResidualStd < 0 || math.IsNaN(band.ResidualStd) || math.IsInf(band.ResidualStd, 0) {
		return band, fmt.Errorf("residual_std=%v: %w", band.ResidualStd, ErrShapeMismatch)
	}
	return band, nil
}

// Margin is the symmetric half-width of the band at the given z score.
func (r ResidualBand) Margin(z float64) float64 { return z * r.ResidualStd }

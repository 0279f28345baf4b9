package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Model tags reported in responses.
const (
	ModelSARIMAX  = "SARIMAX"
	ModelCatBoost = "CatBoost"

	CIMethodResidualStd = "residual_std"
)

// PredictionKind discriminates the two response shapes.
type PredictionKind int

const (
	KindTimeSeries PredictionKind = iota + 1
	KindTabular
)

// Prediction is the result of one routed forecast request.
type Prediction struct {
	Kind  PredictionKind
	Model string

	// DateKey is the requested date string; the time-series value is keyed by it.
	DateKey string

	Value float64
	Lower float64
	Upper float64

	// CIMethod is only set for tabular predictions.
	CIMethod string
}

// MarshalJSON writes the wire shape for the prediction kind, keeping key order stable.
func (p Prediction) MarshalJSON() ([]byte, error) {
	type kv struct {
		k string
		v any
	}
	var pairs []kv
	switch p.Kind {
	case KindTimeSeries:
		pairs = []kv{
			{"model", p.Model},
			{p.DateKey, p.Value},
			{"lower_bound", p.Lower},
			{"upper_bound", p.Upper},
		}
	case KindTabular:
		pairs = []kv{
			{"1_model", p.Model},
			{"2_prediction", p.Value},
			{"3_lower_CI_95", p.Lower},
			{"4_upper_CI_95", p.Upper},
			{"5_CI_method", p.CIMethod},
		}
	default:
		return []byte("null"), nil
	}

	// A date key equal to a fixed key collapses into one entry: the first
	// position is kept and the later value wins.
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].k == pairs[i].k {
				pairs[i].v = pairs[j].v
				pairs = append(pairs[:j], pairs[j+1:]...)
				j--
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(pair.k)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(pair.v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

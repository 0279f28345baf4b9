package features

import (
	"time"

	"SalesCast/internal/domain/models"
	"SalesCast/pkg/util"
)

const (
	discountYes = "Yes"
	discountNo  = "No"
)

// CategoricalFields are stored by their string form; no numeric meaning beyond identity.
var CategoricalFields = []string{
	models.FieldStoreType,
	models.FieldLocationType,
	models.FieldRegionCode,
	models.FieldDiscount,
}

// TypeNormalizer coerces raw request values into the types downstream steps expect.
// Unparsable values degrade to safe defaults; it never returns an error.
type TypeNormalizer struct{}

func NewTypeNormalizer() *TypeNormalizer { return &TypeNormalizer{} }

func (n *TypeNormalizer) Name() string { return "type_normalizer" }

func (n *TypeNormalizer) Transform(rec models.Record) (models.Record, error) {
	return Normalize(rec), nil
}

// Normalize returns a normalized copy of rec.
func Normalize(rec models.Record) models.Record {
	out := rec.Clone()

	out[models.FieldDiscount] = NormalizeDiscount(rec[models.FieldDiscount])
	out[models.FieldHoliday] = NormalizeHoliday(rec[models.FieldHoliday])

	for _, f := range CategoricalFields {
		v, ok := out[f]
		if !ok {
			continue
		}
		if s, ok := util.FormatValue(v); ok {
			out[f] = s
		} else {
			out[f] = nil
		}
	}

	if v, ok := rec[models.FieldDate]; ok {
		out[models.FieldDate] = NormalizeDate(v)
	}
	return out
}

// NormalizeDiscount maps Yes/No/1/0 onto "Yes"/"No"; anything else is "No".
func NormalizeDiscount(v any) string {
	switch x := v.(type) {
	case string:
		if x == discountYes || x == discountNo {
			return x
		}
		return discountNo
	case nil:
		return discountNo
	}
	if f, ok := util.ToFloat(v); ok && f == 1 {
		return discountYes
	}
	return discountNo
}

// NormalizeHoliday parses a holiday flag as a number; unparsable or missing is 0.
func NormalizeHoliday(v any) float64 {
	if f, ok := util.ToFloat(v); ok {
		return f
	}
	return 0
}

// NormalizeDate parses a day-first date, returning models.NoDate when it cannot.
func NormalizeDate(v any) models.CalendarDate {
	switch x := v.(type) {
	case models.CalendarDate:
		return x
	case time.Time:
		if x.IsZero() {
			return models.NoDate
		}
		return models.CalendarDate{Time: x, Valid: true}
	case string:
		if t, ok := util.ParseDayFirst(x); ok {
			return models.CalendarDate{Time: t, Valid: true}
		}
	}
	return models.NoDate
}

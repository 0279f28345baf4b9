package features

import (
	"fmt"
	"math"

	"SalesCast/internal/domain/models"
	"SalesCast/pkg/util"

	"gonum.org/v1/gonum/stat"
)

// AOVPrefix names the emitted features: AOV_<group column>.
const AOVPrefix = "AOV_"

// DefaultGroupFields are the categorical keys AOV statistics are grouped by.
var DefaultGroupFields = []string{
	models.FieldStoreID,
	models.FieldStoreType,
	models.FieldLocationType,
	models.FieldRegionCode,
	models.FieldHoliday,
	models.FieldDiscount,
}

// AOVTable holds fitted mean Sales/Order ratios per group value plus a global
// fallback. It is immutable once built and safe for concurrent readers.
type AOVTable struct {
	GroupFields []string                      `json:"group_cols"`
	Maps        map[string]map[string]float64 `json:"maps"`
	Global      float64                       `json:"global_aov"`
}

// Validate checks the table invariants: a map per group field, finite values, finite fallback.
func (t *AOVTable) Validate() error {
	if t == nil {
		return ErrNotFitted
	}
	if math.IsNaN(t.Global) || math.IsInf(t.Global, 0) {
		return fmt.Errorf("%w: global fallback is not finite", ErrInvalidTable)
	}
	if len(t.GroupFields) == 0 {
		return fmt.Errorf("%w: no group columns", ErrInvalidTable)
	}
	for _, col := range t.GroupFields {
		m, ok := t.Maps[col]
		if !ok {
			return fmt.Errorf("%w: missing map for %s", ErrInvalidTable, col)
		}
		for k, v := range m {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%s] is not finite", ErrInvalidTable, col, k)
			}
		}
	}
	return nil
}

// Lookup returns the group mean for value under col, or the global fallback.
func (t *AOVTable) Lookup(col string, value any) float64 {
	key, ok := util.FormatValue(value)
	if !ok {
		return t.Global
	}
	if v, ok := t.Maps[col][key]; ok {
		return v
	}
	return t.Global
}

// FitAOV computes per-group mean Sales/Order ratios. Rows whose Order is zero
// or either value non-numeric have an undefined ratio and are excluded.
// Rows are expected to be normalized so group keys match inference.
func FitAOV(rows []models.Record, groupFields []string) (*AOVTable, error) {
	if len(groupFields) == 0 {
		groupFields = DefaultGroupFields
	}

	ratios := make([]float64, 0, len(rows))
	defined := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		ratio, ok := orderValue(r)
		if !ok {
			continue
		}
		ratios = append(ratios, ratio)
		defined = append(defined, r)
	}
	if len(ratios) == 0 {
		return nil, ErrNoValidRatios
	}

	t := &AOVTable{
		GroupFields: append([]string(nil), groupFields...),
		Maps:        make(map[string]map[string]float64, len(groupFields)),
		Global:      stat.Mean(ratios, nil),
	}

	for _, col := range groupFields {
		groups := make(map[string][]float64)
		for i, r := range defined {
			key, ok := util.FormatValue(r[col])
			if !ok {
				continue
			}
			groups[key] = append(groups[key], ratios[i])
		}
		m := make(map[string]float64, len(groups))
		for key, xs := range groups {
			m[key] = stat.Mean(xs, nil)
		}
		t.Maps[col] = m
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func orderValue(r models.Record) (float64, bool) {
	sales, ok := util.ToFloat(r[models.FieldSales])
	if !ok {
		return 0, false
	}
	orders, ok := util.ToFloat(r[models.FieldOrder])
	if !ok || orders == 0 {
		return 0, false
	}
	ratio := sales / orders
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, false
	}
	return ratio, true
}

// AOVEnricher attaches AOV_<col> for every group column using a fitted table.
type AOVEnricher struct {
	table *AOVTable
}

func NewAOVEnricher(table *AOVTable) *AOVEnricher { return &AOVEnricher{table: table} }

func (e *AOVEnricher) Name() string { return "aov_enricher" }

func (e *AOVEnricher) Transform(rec models.Record) (models.Record, error) {
	if e.table == nil {
		return nil, ErrNotFitted
	}
	out := rec.Clone()
	for _, col := range e.table.GroupFields {
		out[AOVPrefix+col] = e.table.Lookup(col, rec[col])
	}
	return out, nil
}

package features

import "SalesCast/internal/domain/models"

// DefaultDropFields exist only for fitting or identification.
var DefaultDropFields = []string{
	models.FieldSales,
	models.FieldOrder,
	models.FieldStoreID,
	models.FieldDate,
}

// FeaturePruner removes fields that must never reach the regressor.
type FeaturePruner struct {
	drop []string
}

// NewFeaturePruner builds a pruner; an empty list means DefaultDropFields.
func NewFeaturePruner(drop []string) *FeaturePruner {
	if len(drop) == 0 {
		drop = DefaultDropFields
	}
	return &FeaturePruner{drop: append([]string(nil), drop...)}
}

func (p *FeaturePruner) Name() string { return "feature_pruner" }

func (p *FeaturePruner) Transform(rec models.Record) (models.Record, error) {
	out := rec.Clone()
	for _, f := range p.drop {
		delete(out, f)
	}
	return out, nil
}

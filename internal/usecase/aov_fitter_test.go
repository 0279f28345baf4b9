package usecase

import (
	"context"
	"errors"
	"testing"

	"SalesCast/internal/domain/models"
	"SalesCast/internal/services/features"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAOVFitterFit(t *testing.T) {
	rows := []models.Record{
		{"Store_id": "1", "Store_Type": "S1", "Sales": "100", "Order": "2", "Holiday": "0", "Discount": "Yes"},
		{"Store_id": "1", "Store_Type": "S1", "Sales": "300", "Order": "3", "Holiday": "1", "Discount": "No"},
		{"Store_id": "2", "Store_Type": "S2", "Sales": "80", "Order": "0", "Holiday": "0", "Discount": "No"},
	}
	store := newMemStore()
	f := NewAOVFitter(sliceSource{rows: rows}, store)

	res, err := f.Fit(context.Background(), "preprocessor.json", []string{"Store_id", "Store_Type"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.InDelta(t, 75, res.Table.Maps["Store_id"]["1"], 1e-9)
	assert.NotContains(t, res.Table.Maps["Store_id"], "2")
	assert.InDelta(t, 75, res.Table.Global, 1e-9)

	b, err := store.Load(context.Background(), "preprocessor.json")
	require.NoError(t, err)
	var a features.PreprocessorArtifact
	require.NoError(t, json.Unmarshal(b, &a))
	_, err = a.Build()
	require.NoError(t, err)
	assert.Equal(t, res.Table.Maps, a.AOV.Maps)
}

func TestAOVFitterErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewAOVFitter(sliceSource{err: boom}, newMemStore()).Fit(context.Background(), "p.json", nil, nil)
	assert.ErrorIs(t, err, boom)

	rows := []models.Record{{"Store_id": "1", "Sales": "1", "Order": "0"}}
	_, err = NewAOVFitter(sliceSource{rows: rows}, newMemStore()).Fit(context.Background(), "p.json", []string{"Store_id"}, nil)
	assert.ErrorIs(t, err, features.ErrNoValidRatios)
}

package features

import (
	"testing"
	"time"

	"SalesCast/internal/domain/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDiscount(t *testing.T) {
	testData := map[string]struct {
		in       any
		expected string
	}{
		"yes":        {"Yes", "Yes"},
		"no":         {"No", "No"},
		"one":        {1, "Yes"},
		"json one":   {json.Number("1"), "Yes"},
		"float one":  {1.0, "Yes"},
		"zero":       {0, "No"},
		"nil":        {nil, "No"},
		"maybe":      {"maybe", "No"},
		"string one": {"1", "No"},
		"lower yes":  {"yes", "No"},
		"two":        {2, "No"},
		"true":       {true, "Yes"},
		"false":      {false, "No"},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, NormalizeDiscount(td.in))
		})
	}
}

func TestNormalizeDiscountMissing(t *testing.T) {
	out := Normalize(models.Record{models.FieldStoreType: "S1"})
	assert.Equal(t, "No", out[models.FieldDiscount])
}

func TestNormalizeHoliday(t *testing.T) {
	testData := map[string]struct {
		in       any
		expected float64
	}{
		"numeric string": {"1", 1},
		"float string":   {"0.5", 0.5},
		"number":         {json.Number("1"), 1},
		"int":            {0, 0},
		"word":           {"holiday", 0},
		"empty":          {"", 0},
		"nil":            {nil, 0},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, NormalizeHoliday(td.in))
		})
	}

	out := Normalize(models.Record{})
	assert.Equal(t, float64(0), out[models.FieldHoliday])
}

func TestNormalizeCategoricals(t *testing.T) {
	out := Normalize(models.Record{
		models.FieldStoreType:    "S1",
		models.FieldLocationType: json.Number("3"),
		models.FieldRegionCode:   nil,
	})
	assert.Equal(t, "S1", out[models.FieldStoreType])
	assert.Equal(t, "3", out[models.FieldLocationType])
	assert.Nil(t, out[models.FieldRegionCode])
}

func TestNormalizeDate(t *testing.T) {
	out := Normalize(models.Record{models.FieldDate: "05/02/2019"})
	d, ok := out[models.FieldDate].(models.CalendarDate)
	require.True(t, ok)
	require.True(t, d.Valid)
	assert.Equal(t, time.February, d.Time.Month())
	assert.Equal(t, 5, d.Time.Day())

	out = Normalize(models.Record{models.FieldDate: "someday"})
	assert.Equal(t, models.NoDate, out[models.FieldDate])

	out = Normalize(models.Record{models.FieldDate: 20190205})
	assert.Equal(t, models.NoDate, out[models.FieldDate])
}

func TestNormalizeDateMixedFormats(t *testing.T) {
	for _, in := range []string{"2019-1-5", "2019/01/05", "5/1/2019 10:00", "05-Jan-2019"} {
		d := NormalizeDate(in)
		require.True(t, d.Valid, in)
		assert.Equal(t, time.January, d.Time.Month(), in)
		assert.Equal(t, 5, d.Time.Day(), in)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := models.Record{models.FieldDiscount: 1, models.FieldDate: "01-01-2019"}
	_ = Normalize(in)
	assert.Equal(t, 1, in[models.FieldDiscount])
	assert.Equal(t, "01-01-2019", in[models.FieldDate])
}

package features

import (
	"testing"
	"time"

	"SalesCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarExtractor(t *testing.T) {
	testData := map[string]struct {
		date     any
		expected map[string]int
	}{
		"monday": {
			"2024-01-01",
			map[string]int{"Day_of_week": 0, "Month": 1, "Is_weekend": 0, "Is_month_end": 0, "Is_quarter_end": 0},
		},
		"sunday quarter end": {
			"31/03/2024",
			map[string]int{"Day_of_week": 6, "Month": 3, "Is_weekend": 1, "Is_month_end": 1, "Is_quarter_end": 1},
		},
		"month end only": {
			models.CalendarDate{Time: time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), Valid: true},
			map[string]int{"Day_of_week": 1, "Month": 4, "Is_weekend": 0, "Is_month_end": 1, "Is_quarter_end": 0},
		},
		"saturday": {
			time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC),
			map[string]int{"Day_of_week": 5, "Month": 1, "Is_weekend": 1, "Is_month_end": 0, "Is_quarter_end": 0},
		},
		"unparsable": {
			"not-a-date",
			map[string]int{"Day_of_week": -1, "Month": -1, "Is_weekend": 0, "Is_month_end": 0, "Is_quarter_end": 0},
		},
		"sentinel": {
			models.NoDate,
			map[string]int{"Day_of_week": -1, "Month": -1, "Is_weekend": 0, "Is_month_end": 0, "Is_quarter_end": 0},
		},
	}

	c := NewCalendarExtractor()
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out, err := c.Transform(models.Record{models.FieldDate: td.date})
			require.NoError(t, err)
			for k, v := range td.expected {
				assert.Equal(t, v, out[k], k)
			}
		})
	}
}

func TestCalendarExtractorMissingDate(t *testing.T) {
	out, err := NewCalendarExtractor().Transform(models.Record{})
	require.NoError(t, err)
	assert.Equal(t, -1, out[models.FieldDayOfWeek])
	assert.Equal(t, -1, out[models.FieldMonth])
	assert.Equal(t, 0, out[models.FieldIsWeekend])
	assert.Equal(t, 0, out[models.FieldIsMonthEnd])
	assert.Equal(t, 0, out[models.FieldIsQuarterEnd])
}

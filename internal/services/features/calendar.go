package features

import (
	"time"

	"SalesCast/internal/domain/models"
	"SalesCast/pkg/util"
)

// CalendarExtractor derives calendar-position features from the Date field.
// A missing date yields -1 positions and false flags, never missing values.
type CalendarExtractor struct{}

func NewCalendarExtractor() *CalendarExtractor { return &CalendarExtractor{} }

func (c *CalendarExtractor) Name() string { return "calendar_features" }

func (c *CalendarExtractor) Transform(rec models.Record) (models.Record, error) {
	out := rec.Clone()
	d := NormalizeDate(rec[models.FieldDate])

	if !d.Valid {
		out[models.FieldDayOfWeek] = -1
		out[models.FieldMonth] = -1
		out[models.FieldIsWeekend] = 0
		out[models.FieldIsMonthEnd] = 0
		out[models.FieldIsQuarterEnd] = 0
		return out, nil
	}

	dow := DayOfWeek(d.Time)
	out[models.FieldDayOfWeek] = dow
	out[models.FieldMonth] = int(d.Time.Month())
	out[models.FieldIsWeekend] = flag(dow >= 5)
	out[models.FieldIsMonthEnd] = flag(util.IsMonthEnd(d.Time))
	out[models.FieldIsQuarterEnd] = flag(util.IsQuarterEnd(d.Time))
	return out, nil
}

// DayOfWeek returns 0 for Monday through 6 for Sunday.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

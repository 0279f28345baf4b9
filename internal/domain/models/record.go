package models

import "time"

// Field names recognised on an incoming sales record.
const (
	FieldDate         = "Date"
	FieldHoliday      = "Holiday"
	FieldDiscount     = "Discount"
	FieldStoreType    = "Store_Type"
	FieldLocationType = "Location_Type"
	FieldRegionCode   = "Region_Code"
	FieldStoreID      = "Store_id"
	FieldSales        = "Sales"
	FieldOrder        = "Order"
)

// Derived calendar features.
const (
	FieldDayOfWeek    = "Day_of_week"
	FieldMonth        = "Month"
	FieldIsWeekend    = "Is_weekend"
	FieldIsMonthEnd   = "Is_month_end"
	FieldIsQuarterEnd = "Is_quarter_end"
)

// Record is one store/date observation as a flat field -> value mapping.
type Record map[string]any

// Clone returns a shallow copy so transforms never mutate their input.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CalendarDate is a normalized date. Valid=false is the "no date" sentinel.
type CalendarDate struct {
	Time  time.Time
	Valid bool
}

// NoDate is the sentinel stored when a date could not be parsed.
var NoDate = CalendarDate{}

// ExogFrame is the single-step exogenous regressor frame for the time-series model.
type ExogFrame struct {
	Holiday  float64
	Discount float64
}

// Value resolves a regressor by the name it was fitted with.
func (f ExogFrame) Value(name string) (float64, bool) {
	switch name {
	case "holiday", "Holiday":
		return f.Holiday, true
	case "discount", "Discount":
		return f.Discount, true
	default:
		return 0, false
	}
}

// Interval is a point forecast with its confidence bounds.
type Interval struct {
	Mean  float64
	Lower float64
	Upper float64
}

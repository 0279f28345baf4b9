package util

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dayFirstLayouts cover the numeric forms dateparse rejects or reads month-first.
// Year-first dates are unambiguous so they go first.
var dayFirstLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04:05",
	"2-Jan-2006",
	"2-1-06",
	"2/1/06",
}

// ParseDayFirst parses a calendar date resolving day/month ambiguity day-first.
// Returns (t, true) on success; the time is truncated to midnight UTC.
func ParseDayFirst(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}
	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return midnight(t), true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsMonthEnd reports whether t is the last day of its month.
func IsMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

// IsQuarterEnd reports whether t is the last day of March, June, September or December.
func IsQuarterEnd(t time.Time) bool {
	return IsMonthEnd(t) && t.Month()%3 == 0
}

package leave

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRange   = errors.New("until date before from date")
	ErrDegenerateSpan = errors.New("request span is zero or negative")
	ErrInvalidDayType = errors.New("invalid day type")
)

var half = decimal.NewFromFloat(0.5)

// SpanDays returns the inclusive calendar-day count between from and until,
// minus 0.5 for each half-day boundary. A span that lands at or below zero
// (a single day flagged half-day on both ends) is degenerate and reported as
// an error for the caller to reject; it is never silently corrected.
func SpanDays(from, until time.Time, fromType, untilType DayType) (decimal.Decimal, error) {
	if !fromType.Valid() || !untilType.Valid() {
		return decimal.Zero, ErrInvalidDayType
	}
	from = truncateToDay(from)
	until = truncateToDay(until)
	if until.Before(from) {
		return decimal.Zero, ErrInvalidRange
	}

	days := decimal.NewFromInt(calendarDays(from, until))
	if fromType == HalfDay {
		days = days.Sub(half)
	}
	if untilType == HalfDay {
		days = days.Sub(half)
	}
	if !days.IsPositive() {
		return decimal.Zero, ErrDegenerateSpan
	}
	return days, nil
}

// calendarDays counts the inclusive days between two midnights. Both ends
// are re-anchored in UTC first: in a DST-observing location the wall-clock
// difference is not a whole multiple of 24h, which would undercount.
func calendarDays(from, until time.Time) int64 {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	u := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC)
	return int64(u.Sub(f)/(24*time.Hour)) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

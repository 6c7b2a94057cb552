package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSpanDaysFullDays(t *testing.T) {
	days, err := SpanDays(date(2024, 3, 1), date(2024, 3, 3), FullDay, FullDay)
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(3)), "got %s", days)
}

func TestSpanDaysSingleDay(t *testing.T) {
	days, err := SpanDays(date(2024, 6, 10), date(2024, 6, 10), FullDay, FullDay)
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(1)))
}

func TestSpanDaysHalfDayBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		fromType  DayType
		untilType DayType
		want      string
	}{
		{"half start", HalfDay, FullDay, "2.5"},
		{"half end", FullDay, HalfDay, "2.5"},
		{"half both", HalfDay, HalfDay, "2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := SpanDays(date(2024, 3, 1), date(2024, 3, 3), tc.fromType, tc.untilType)
			require.NoError(t, err)
			want, _ := decimal.NewFromString(tc.want)
			assert.True(t, days.Equal(want), "want %s got %s", want, days)
		})
	}
}

func TestSpanDaysSingleDayHalf(t *testing.T) {
	days, err := SpanDays(date(2024, 6, 10), date(2024, 6, 10), HalfDay, FullDay)
	require.NoError(t, err)
	assert.True(t, days.Equal(half))
}

func TestSpanDaysDegenerateDoubleHalf(t *testing.T) {
	_, err := SpanDays(date(2024, 6, 10), date(2024, 6, 10), HalfDay, HalfDay)
	assert.ErrorIs(t, err, ErrDegenerateSpan)
}

func TestSpanDaysReversedRange(t *testing.T) {
	_, err := SpanDays(date(2024, 3, 3), date(2024, 3, 1), FullDay, FullDay)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSpanDaysInvalidDayType(t *testing.T) {
	_, err := SpanDays(date(2024, 3, 1), date(2024, 3, 3), DayType("weekend"), FullDay)
	assert.ErrorIs(t, err, ErrInvalidDayType)
}

func TestSpanDaysIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	until := time.Date(2024, 3, 3, 0, 1, 0, 0, time.UTC)
	days, err := SpanDays(from, until, FullDay, FullDay)
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(3)))
}

func TestSpanDaysAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward on 2024-03-10; midnight-to-midnight across the
	// transition is 47h, which a naive duration divide floors to 2 days.
	from := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	until := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	days, err := SpanDays(from, until, FullDay, FullDay)
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(3)), "want 3 got %s", days)

	// Fall back on 2024-11-03: 49h, which must not round up to 4.
	from = time.Date(2024, 11, 2, 0, 0, 0, 0, loc)
	until = time.Date(2024, 11, 4, 0, 0, 0, 0, loc)
	days, err = SpanDays(from, until, FullDay, FullDay)
	require.NoError(t, err)
	assert.True(t, days.Equal(decimal.NewFromInt(3)), "want 3 got %s", days)
}

func TestSpanDaysAlwaysAtLeastHalf(t *testing.T) {
	for span := 0; span < 5; span++ {
		for _, fromType := range []DayType{FullDay, HalfDay} {
			for _, untilType := range []DayType{FullDay, HalfDay} {
				if span == 0 && fromType == HalfDay && untilType == HalfDay {
					continue
				}
				days, err := SpanDays(date(2024, 1, 10), date(2024, 1, 10+span), fromType, untilType)
				require.NoError(t, err)
				assert.True(t, days.GreaterThanOrEqual(half),
					"span %d %s/%s resolved below 0.5: %s", span, fromType, untilType, days)
			}
		}
	}
}

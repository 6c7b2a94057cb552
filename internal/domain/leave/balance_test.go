package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEffectiveRemainingWithPending(t *testing.T) {
	// Sick Leave: 10 total, 2 used, 8 remaining, one pending 3-day request.
	snapshot := &BalanceSnapshot{
		EmployeeID: "e1",
		CategoryID: "sick",
		Total:      dec("10"),
		Used:       dec("2"),
		Remaining:  dec("8"),
		CapturedAt: time.Now(),
	}
	pending := []Request{{
		EmployeeID:   "e1",
		CategoryID:   "sick",
		FromDate:     date(2024, 3, 1),
		UntilDate:    date(2024, 3, 3),
		FromDayType:  FullDay,
		UntilDayType: FullDay,
		Days:         dec("3"),
		Status:       StatusPending,
	}}

	summary := EffectiveRemaining(snapshot, "sick", dec("10"), pending)
	assert.True(t, summary.Total.Equal(dec("10")))
	assert.True(t, summary.Used.Equal(dec("2")))
	assert.True(t, summary.Remaining.Equal(dec("5")), "got %s", summary.Remaining)
}

func TestEffectiveRemainingSynthesizesDefault(t *testing.T) {
	summary := EffectiveRemaining(nil, "vacation", dec("15"), nil)
	assert.True(t, summary.Total.Equal(dec("15")))
	assert.True(t, summary.Used.IsZero())
	assert.True(t, summary.Remaining.Equal(dec("15")))
}

func TestEffectiveRemainingFloorsAtZero(t *testing.T) {
	snapshot := &BalanceSnapshot{CategoryID: "sick", Total: dec("10"), Used: dec("8"), Remaining: dec("2")}
	pending := []Request{
		{CategoryID: "sick", Days: dec("3"), Status: StatusPending},
		{CategoryID: "sick", Days: dec("2"), Status: StatusPending},
	}
	summary := EffectiveRemaining(snapshot, "sick", dec("10"), pending)
	assert.True(t, summary.Remaining.IsZero(), "got %s", summary.Remaining)
	// total and used pass through untouched
	assert.True(t, summary.Total.Equal(dec("10")))
	assert.True(t, summary.Used.Equal(dec("8")))
}

func TestPendingDeductionFiltersStatusAndCategory(t *testing.T) {
	pending := []Request{
		{CategoryID: "sick", Days: dec("2"), Status: StatusPending},
		{CategoryID: "sick", Days: dec("4"), Status: StatusApproved},
		{CategoryID: "sick", Days: dec("1"), Status: StatusRejected},
		{CategoryID: "vacation", Days: dec("5"), Status: StatusPending},
	}
	sum := PendingDeduction("sick", pending)
	assert.True(t, sum.Equal(dec("2")), "got %s", sum)
}

func TestPendingDeductionRecomputesMissingDays(t *testing.T) {
	pending := []Request{{
		CategoryID:   "sick",
		FromDate:     date(2024, 3, 1),
		UntilDate:    date(2024, 3, 3),
		FromDayType:  FullDay,
		UntilDayType: HalfDay,
		Status:       StatusPending,
	}}
	sum := PendingDeduction("sick", pending)
	assert.True(t, sum.Equal(dec("2.5")), "got %s", sum)
}

func TestPendingDeductionSkipsBrokenSpans(t *testing.T) {
	pending := []Request{
		{
			CategoryID:  "sick",
			FromDate:    date(2024, 3, 5),
			UntilDate:   date(2024, 3, 1),
			FromDayType: FullDay, UntilDayType: FullDay,
			Status: StatusPending,
		},
		{CategoryID: "sick", Days: dec("1"), Status: StatusPending},
	}
	sum := PendingDeduction("sick", pending)
	assert.True(t, sum.Equal(dec("1")), "got %s", sum)
}

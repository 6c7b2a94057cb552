package leave

import "github.com/shopspring/decimal"

// EffectiveRemaining combines the authoritative balance snapshot with the
// day-spans of in-flight requests. Total and used pass through verbatim;
// only remaining is adjusted, floored at zero. When no snapshot exists the
// category default allotment is synthesized as a fresh balance.
//
// Only requests whose status is exactly StatusPending and whose category
// matches the snapshot's count against remaining; the stored snapshot is
// never recomputed from request history.
func EffectiveRemaining(snapshot *BalanceSnapshot, categoryID string, defaultAllotment decimal.Decimal, pending []Request) BalanceSummary {
	summary := BalanceSummary{
		CategoryID: categoryID,
		Total:      defaultAllotment,
		Used:       decimal.Zero,
		Remaining:  defaultAllotment,
	}
	if snapshot != nil {
		summary.Total = snapshot.Total
		summary.Used = snapshot.Used
		summary.Remaining = snapshot.Remaining
	}

	summary.Remaining = summary.Remaining.Sub(PendingDeduction(categoryID, pending))
	if summary.Remaining.IsNegative() {
		summary.Remaining = decimal.Zero
	}
	return summary
}

// PendingDeduction sums the day-spans of pending requests for one category.
// Requests whose span no longer computes (bad historical data) are skipped
// rather than failing the whole balance.
func PendingDeduction(categoryID string, pending []Request) decimal.Decimal {
	sum := decimal.Zero
	for _, req := range pending {
		if req.Status != StatusPending || req.CategoryID != categoryID {
			continue
		}
		days := req.Days
		if days.IsZero() {
			computed, err := SpanDays(req.FromDate, req.UntilDate, req.FromDayType, req.UntilDayType)
			if err != nil {
				continue
			}
			days = computed
		}
		sum = sum.Add(days)
	}
	return sum
}

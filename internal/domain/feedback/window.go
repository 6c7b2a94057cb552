package feedback

import "time"

// FindActiveWindow scans cycle collections in priority order and returns
// the first one containing today, bounds inclusive on both ends. today is
// caller-supplied so the result is deterministic under test. A nil result
// means no period is active, which callers treat as an empty state rather
// than an error.
func FindActiveWindow(collections [][]Cycle, today time.Time) *Cycle {
	day := truncateToDay(today)
	for _, cycles := range collections {
		for i := range cycles {
			start := truncateToDay(cycles[i].StartDate)
			end := truncateToDay(cycles[i].EndDate)
			if day.Before(start) || day.After(end) {
				continue
			}
			return &cycles[i]
		}
	}
	return nil
}

// FilterByDepartment keeps the cycles whose owner belongs to targetDept
// according to deptByOwner. Owners missing from the lookup are skipped,
// not errored; a stale cycle owned by a departed employee should not break
// the listing for everyone else.
func FilterByDepartment(cycles []Cycle, deptByOwner map[string]string, targetDept string) []Cycle {
	out := make([]Cycle, 0, len(cycles))
	for _, c := range cycles {
		dept, ok := deptByOwner[c.OwnerEmployeeID]
		if !ok {
			continue
		}
		if dept == targetDept {
			out = append(out, c)
		}
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package attendance

import (
	"sort"
	"time"
)

// PairSessions reconstructs in/out sessions for one calendar day from an
// append-only event stream. Events outside forDate are ignored. Within a
// day, the last event seen per action wins, so a corrected clock-in simply
// overwrites the earlier one. asOf is caller-supplied; the function samples
// no clock of its own.
//
// Duration rules:
//   - both timestamps present: timeOut minus timeIn
//   - only a time-in, asOf still within forDate: asOf minus timeIn, in progress
//   - only a time-in, asOf past forDate: clamped to end of day, missing out
//   - no time-in at all: no session is emitted
func PairSessions(events []Event, forDate time.Time, asOf time.Time) []Session {
	day := truncateToDay(forDate)
	dayEnd := day.Add(24*time.Hour - time.Nanosecond)

	type pair struct {
		in  *time.Time
		out *time.Time
	}
	pairs := make(map[string]*pair)

	for _, ev := range events {
		if !truncateToDay(ev.OccurredAt).Equal(day) {
			continue
		}
		p := pairs[ev.EmployeeID]
		if p == nil {
			p = &pair{}
			pairs[ev.EmployeeID] = p
		}
		at := ev.OccurredAt
		switch ev.Action {
		case ActionTimeIn:
			p.in = &at
		case ActionTimeOut:
			p.out = &at
		}
	}

	sessions := make([]Session, 0, len(pairs))
	for employeeID, p := range pairs {
		if p.in == nil {
			continue
		}
		s := Session{
			EmployeeID: employeeID,
			Date:       day,
			TimeIn:     p.in,
			TimeOut:    p.out,
		}
		switch {
		case p.out != nil:
			s.Duration = p.out.Sub(*p.in)
			s.Status = StatusComplete
		case asOf.After(dayEnd):
			s.Duration = dayEnd.Sub(*p.in)
			s.Status = StatusMissingOut
		default:
			s.Duration = asOf.Sub(*p.in)
			s.Status = StatusInProgress
		}
		if s.Duration < 0 {
			s.Duration = 0
		}
		s.Hours = s.Duration.Hours()
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].EmployeeID < sessions[j].EmployeeID
	})
	return sessions
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

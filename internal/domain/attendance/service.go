package attendance

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyClockedIn = errors.New("already clocked in today")
	ErrNotClockedIn     = errors.New("not clocked in today")
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// ClockIn records a Time In event. A repeated clock-in on the same day is
// rejected unless the caller marks it a correction, in which case the new
// event overwrites the old one at pairing time.
func (s *Service) ClockIn(ctx context.Context, employeeID string, at time.Time, lat, lng *float64, correction bool) (Event, error) {
	session, err := s.day(ctx, employeeID, at, at)
	if err != nil {
		return Event{}, err
	}
	if session != nil && session.TimeIn != nil && !correction {
		return Event{}, ErrAlreadyClockedIn
	}
	ev := Event{EmployeeID: employeeID, Action: ActionTimeIn, OccurredAt: at, Latitude: lat, Longitude: lng}
	id, err := s.Store.RecordEvent(ctx, ev)
	if err != nil {
		return Event{}, err
	}
	ev.ID = id
	return ev, nil
}

// ClockOut records a Time Out event. It requires an open session for the day.
func (s *Service) ClockOut(ctx context.Context, employeeID string, at time.Time, lat, lng *float64) (Event, error) {
	session, err := s.day(ctx, employeeID, at, at)
	if err != nil {
		return Event{}, err
	}
	if session == nil || session.TimeIn == nil {
		return Event{}, ErrNotClockedIn
	}
	ev := Event{EmployeeID: employeeID, Action: ActionTimeOut, OccurredAt: at, Latitude: lat, Longitude: lng}
	id, err := s.Store.RecordEvent(ctx, ev)
	if err != nil {
		return Event{}, err
	}
	ev.ID = id
	return ev, nil
}

// Day returns the paired session for one employee on one day, or nil when
// there is no time-in.
func (s *Service) Day(ctx context.Context, employeeID string, day time.Time, asOf time.Time) (*Session, error) {
	return s.day(ctx, employeeID, day, asOf)
}

func (s *Service) day(ctx context.Context, employeeID string, day time.Time, asOf time.Time) (*Session, error) {
	events, err := s.Store.EventsByDateRange(ctx, employeeID, day, day)
	if err != nil {
		return nil, err
	}
	sessions := PairSessions(events, day, asOf)
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// Range returns one session per day with activity in [from, until].
func (s *Service) Range(ctx context.Context, employeeID string, from, until time.Time, asOf time.Time) ([]Session, error) {
	events, err := s.Store.EventsByDateRange(ctx, employeeID, from, until)
	if err != nil {
		return nil, err
	}
	var sessions []Session
	for day := from; !day.After(until); day = day.AddDate(0, 0, 1) {
		sessions = append(sessions, PairSessions(events, day, asOf)...)
	}
	return sessions, nil
}

// DailySummary returns every employee's session for one day.
func (s *Service) DailySummary(ctx context.Context, day time.Time, asOf time.Time) ([]Session, error) {
	events, err := s.Store.EventsForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return PairSessions(events, day, asOf), nil
}

package attendance

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// RecordEvent appends a clock event. Events are never updated or deleted;
// a correction is just another event that the pairer prefers.
func (s *Store) RecordEvent(ctx context.Context, ev Event) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
		INSERT INTO attendance_events (employee_id, action, occurred_at, latitude, longitude, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		ev.EmployeeID, ev.Action, ev.OccurredAt, ev.Latitude, ev.Longitude, ev.Note,
	).Scan(&id)
	return id, err
}

// EventsByDateRange returns all events for one employee between from and
// until inclusive, in recording order so the pairer's fold sees corrections
// after the events they replace.
func (s *Store) EventsByDateRange(ctx context.Context, employeeID string, from, until time.Time) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, employee_id, action, occurred_at, recorded_at, latitude, longitude, COALESCE(note, '')
		FROM attendance_events
		WHERE employee_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY recorded_at ASC`,
		employeeID, from, until.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// EventsForDay returns every employee's events for one calendar day, again
// in recording order.
func (s *Store) EventsForDay(ctx context.Context, day time.Time) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, employee_id, action, occurred_at, recorded_at, latitude, longitude, COALESCE(note, '')
		FROM attendance_events
		WHERE occurred_at >= $1 AND occurred_at < $2
		ORDER BY recorded_at ASC`,
		day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Action, &ev.OccurredAt, &ev.RecordedAt, &ev.Latitude, &ev.Longitude, &ev.Note); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

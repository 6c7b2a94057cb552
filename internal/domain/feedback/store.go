package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCycleNotFound = errors.New("feedback cycle not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// CyclesByQuarter fetches one collection per quarter in the fixed Q1..Q4
// order. The window matcher walks the collections in that order.
func (s *Store) CyclesByQuarter(ctx context.Context) ([][]Cycle, error) {
	collections := make([][]Cycle, 0, len(Quarters))
	for _, quarter := range Quarters {
		rows, err := s.DB.Query(ctx, `
			SELECT id, owner_employee_id, department_id, quarter, COALESCE(title, ''), start_date, end_date, created_at
			FROM feedback_cycles
			WHERE quarter = $1
			ORDER BY start_date ASC`,
			quarter)
		if err != nil {
			return nil, err
		}
		cycles, err := scanCycles(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		collections = append(collections, cycles)
	}
	return collections, nil
}

func (s *Store) ListCycles(ctx context.Context, quarter string) ([]Cycle, error) {
	query := `
		SELECT id, owner_employee_id, department_id, quarter, COALESCE(title, ''), start_date, end_date, created_at
		FROM feedback_cycles
	`
	args := []any{}
	if quarter != "" {
		args = append(args, quarter)
		query += " WHERE quarter = $1"
	}
	query += " ORDER BY start_date DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCycles(rows)
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (*Cycle, error) {
	var c Cycle
	err := s.DB.QueryRow(ctx, `
		SELECT id, owner_employee_id, department_id, quarter, COALESCE(title, ''), start_date, end_date, created_at
		FROM feedback_cycles
		WHERE id = $1`,
		cycleID,
	).Scan(&c.ID, &c.OwnerEmployeeID, &c.DepartmentID, &c.Quarter, &c.Title, &c.StartDate, &c.EndDate, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCycleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCycle(ctx context.Context, c Cycle) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
		INSERT INTO feedback_cycles (owner_employee_id, department_id, quarter, title, start_date, end_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		RETURNING id`,
		c.OwnerEmployeeID, c.DepartmentID, c.Quarter, c.Title, c.StartDate, c.EndDate,
	).Scan(&id)
	return id, err
}

func (s *Store) ListResponses(ctx context.Context, cycleID string) ([]Response, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, cycle_id, employee_id, COALESCE(reviewer_employee_id::text, ''), rating, COALESCE(comments, ''), submitted_at
		FROM feedback_responses
		WHERE cycle_id = $1
		ORDER BY submitted_at DESC`,
		cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []Response
	for rows.Next() {
		var r Response
		if err := rows.Scan(&r.ID, &r.CycleID, &r.EmployeeID, &r.ReviewerEmployeeID, &r.Rating, &r.Comments, &r.SubmittedAt); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func (s *Store) CreateResponse(ctx context.Context, r Response) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
		INSERT INTO feedback_responses (cycle_id, employee_id, reviewer_employee_id, rating, comments, submitted_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, NULLIF($5, ''), $6)
		RETURNING id`,
		r.CycleID, r.EmployeeID, r.ReviewerEmployeeID, r.Rating, r.Comments, time.Now().UTC(),
	).Scan(&id)
	return id, err
}

func scanCycles(rows pgx.Rows) ([]Cycle, error) {
	var cycles []Cycle
	for rows.Next() {
		var c Cycle
		if err := rows.Scan(&c.ID, &c.OwnerEmployeeID, &c.DepartmentID, &c.Quarter, &c.Title, &c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

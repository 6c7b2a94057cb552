package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrRequestNotFound = errors.New("leave request not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	query := `
    SELECT id, name, code, max_allotment, active, created_at
    FROM leave_categories
  `
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Code, &cat.MaxAllotment, &cat.Active, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, categoryID string) (*Category, error) {
	var cat Category
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, code, max_allotment, active, created_at
    FROM leave_categories
    WHERE id = $1
  `, categoryID).Scan(&cat.ID, &cat.Name, &cat.Code, &cat.MaxAllotment, &cat.Active, &cat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Store) CreateCategory(ctx context.Context, cat Category) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_categories (name, code, max_allotment, active)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, cat.Name, cat.Code, cat.MaxAllotment, cat.Active).Scan(&id)
	return id, err
}

// LatestSnapshot returns the most recently captured snapshot for the pair or
// nil when none exists yet.
func (s *Store) LatestSnapshot(ctx context.Context, employeeID, categoryID string) (*BalanceSnapshot, error) {
	var snap BalanceSnapshot
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, category_id, total, used, remaining, captured_at
    FROM leave_balance_snapshots
    WHERE employee_id = $1 AND category_id = $2
    ORDER BY captured_at DESC
    LIMIT 1
  `, employeeID, categoryID).Scan(&snap.ID, &snap.EmployeeID, &snap.CategoryID, &snap.Total, &snap.Used, &snap.Remaining, &snap.CapturedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// AppendSnapshot writes a new snapshot superseding older ones by capture
// time. Snapshots are never updated in place.
func (s *Store) AppendSnapshot(ctx context.Context, employeeID, categoryID string, total, used, remaining decimal.Decimal, capturedAt time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balance_snapshots (employee_id, category_id, total, used, remaining, captured_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, employeeID, categoryID, total, used, remaining, capturedAt)
	return err
}

func (s *Store) PendingRequests(ctx context.Context, employeeID string) ([]Request, error) {
	return s.requestsWhere(ctx, "WHERE employee_id = $1 AND status = $2", employeeID, StatusPending)
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (*Request, error) {
	requests, err := s.requestsWhere(ctx, "WHERE id = $1", requestID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrRequestNotFound
	}
	return &requests[0], nil
}

func (s *Store) ListRequests(ctx context.Context, employeeID, managerEmployeeID, status string, limit, offset int) ([]Request, error) {
	query := `
    SELECT id, employee_id, category_id, from_date, until_date, from_day_type, until_day_type,
           days, reason, status, COALESCE(certificate_ref, ''), self_certified, created_at, updated_at
    FROM leave_requests
    WHERE 1=1
  `
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if managerEmployeeID != "" {
		args = append(args, managerEmployeeID)
		query += fmt.Sprintf(" AND employee_id IN (SELECT id FROM employees WHERE manager_id = $%d)", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (s *Store) CreateRequest(ctx context.Context, req Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, category_id, from_date, until_date, from_day_type, until_day_type, days, reason, status, certificate_ref, self_certified)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10,''),$11)
    RETURNING id
  `, req.EmployeeID, req.CategoryID, req.FromDate, req.UntilDate, string(req.FromDayType), string(req.UntilDayType),
		req.Days, req.Reason, StatusPending, req.CertificateRef, req.SelfCertified).Scan(&id)
	return id, err
}

func (s *Store) UpdateRequestStatus(ctx context.Context, requestID, status, decidedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, decided_by = NULLIF($2,'')::uuid, decided_at = now(), updated_at = now()
    WHERE id = $3
  `, status, decidedBy, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *Store) requestsWhere(ctx context.Context, where string, args ...any) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, category_id, from_date, until_date, from_day_type, until_day_type,
           days, reason, status, COALESCE(certificate_ref, ''), self_certified, created_at, updated_at
    FROM leave_requests
  `+where+" ORDER BY created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func scanRequests(rows pgx.Rows) ([]Request, error) {
	var requests []Request
	for rows.Next() {
		var req Request
		var fromType, untilType string
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.CategoryID, &req.FromDate, &req.UntilDate, &fromType, &untilType,
			&req.Days, &req.Reason, &req.Status, &req.CertificateRef, &req.SelfCertified, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		req.FromDayType = DayType(fromType)
		req.UntilDayType = DayType(untilType)
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type BalanceRow struct {
	EmployeeNumber string          `json:"employeeNumber"`
	EmployeeName   string          `json:"employeeName"`
	CategoryName   string          `json:"categoryName"`
	Total          decimal.Decimal `json:"total"`
	Used           decimal.Decimal `json:"used"`
	Remaining      decimal.Decimal `json:"remaining"`
}

type UsageRow struct {
	CategoryName  string          `json:"categoryName"`
	ApprovedCount int             `json:"approvedCount"`
	ApprovedDays  decimal.Decimal `json:"approvedDays"`
	PendingCount  int             `json:"pendingCount"`
}

// LeaveBalances returns each employee's latest snapshot per category. Older
// snapshots are superseded by capture timestamp, so only the newest row per
// (employee, category) pair is reported.
func (s *Store) LeaveBalances(ctx context.Context) ([]BalanceRow, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT COALESCE(e.employee_number, ''), e.first_name || ' ' || e.last_name, c.name,
		       b.total, b.used, b.remaining
		FROM leave_balance_snapshots b
		JOIN employees e ON e.id = b.employee_id
		JOIN leave_categories c ON c.id = b.category_id
		WHERE b.captured_at = (
			SELECT MAX(b2.captured_at)
			FROM leave_balance_snapshots b2
			WHERE b2.employee_id = b.employee_id AND b2.category_id = b.category_id
		)
		ORDER BY e.employee_number, c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var r BalanceRow
		if err := rows.Scan(&r.EmployeeNumber, &r.EmployeeName, &r.CategoryName, &r.Total, &r.Used, &r.Remaining); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LeaveUsage aggregates approved and pending requests per category within a
// date range.
func (s *Store) LeaveUsage(ctx context.Context, from, until time.Time) ([]UsageRow, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT c.name,
		       COUNT(*) FILTER (WHERE r.status = 'Approved'),
		       COALESCE(SUM(r.days) FILTER (WHERE r.status = 'Approved'), 0),
		       COUNT(*) FILTER (WHERE r.status = 'Pending for Approval')
		FROM leave_requests r
		JOIN leave_categories c ON c.id = r.category_id
		WHERE r.from_date >= $1 AND r.from_date <= $2
		GROUP BY c.name
		ORDER BY c.name`,
		from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UsageRow
	for rows.Next() {
		var r UsageRow
		if err := rows.Scan(&r.CategoryName, &r.ApprovedCount, &r.ApprovedDays, &r.PendingCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) PendingRequestCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM leave_requests WHERE status = 'Pending for Approval'`,
	).Scan(&count)
	return count, err
}

func (s *Store) ActiveEmployeeCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE status = 'active'`,
	).Scan(&count)
	return count, err
}

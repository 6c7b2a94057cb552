package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id,
           COALESCE(user_id::text, ''),
           COALESCE(employee_number, ''),
           first_name, last_name, email,
           COALESCE(phone, ''),
           COALESCE(department_id::text, ''),
           COALESCE(manager_id::text, ''),
           COALESCE(position, ''),
           start_date, end_date, status, created_at, updated_at
    FROM employees
    WHERE id = $1
  `, employeeID)

	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.DepartmentID, &emp.ManagerID, &emp.Position,
		&emp.StartDate, &emp.EndDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE user_id = $1", userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *Store) UserIDByEmployeeID(ctx context.Context, employeeID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(user_id::text, '') FROM employees WHERE id = $1", employeeID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// DepartmentOfEmployee resolves an employee to their organizational unit.
// A missing employee reports ErrNotFound so callers can skip rather than fail.
func (s *Store) DepartmentOfEmployee(ctx context.Context, employeeID string) (string, error) {
	var departmentID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(department_id::text, '') FROM employees WHERE id = $1", employeeID).Scan(&departmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return departmentID, err
}

func (s *Store) IsManagerOf(ctx context.Context, managerEmployeeID, employeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE id = $1 AND manager_id = $2
  `, employeeID, managerEmployeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListEmployees(ctx context.Context, departmentID string, limit, offset int) ([]Employee, error) {
	query := `
    SELECT id,
           COALESCE(user_id::text, ''),
           COALESCE(employee_number, ''),
           first_name, last_name, email,
           COALESCE(phone, ''),
           COALESCE(department_id::text, ''),
           COALESCE(manager_id::text, ''),
           COALESCE(position, ''),
           start_date, end_date, status, created_at, updated_at
    FROM employees
  `
	args := []any{}
	if departmentID != "" {
		query += " WHERE department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY last_name, first_name"
	if departmentID != "" {
		query += " LIMIT $2 OFFSET $3"
	} else {
		query += " LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
			&emp.DepartmentID, &emp.ManagerID, &emp.Position,
			&emp.StartDate, &emp.EndDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, phone, department_id, manager_id, position, start_date, status)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, $6, NULLIF($7,'')::uuid, NULLIF($8,'')::uuid, $9, $10, $11)
    RETURNING id
  `, emp.UserID, emp.EmployeeNumber, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.DepartmentID, emp.ManagerID, emp.Position, emp.StartDate, emp.Status).Scan(&id)
	return id, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(parent_id::text, ''), COALESCE(manager_id::text, ''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.ParentID, &dept.ManagerID, &dept.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, dept Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, parent_id, manager_id)
    VALUES ($1, NULLIF($2,'')::uuid, NULLIF($3,'')::uuid)
    RETURNING id
  `, dept.Name, dept.ParentID, dept.ManagerID).Scan(&id)
	return id, err
}

// DepartmentsByEmployee returns a unit lookup map for in-memory scope
// filtering, one query for a whole batch of employee IDs.
func (s *Store) DepartmentsByEmployee(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	if len(employeeIDs) == 0 {
		return map[string]string{}, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(department_id::text, '')
    FROM employees
    WHERE id = ANY($1)
  `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string, len(employeeIDs))
	for rows.Next() {
		var id, departmentID string
		if err := rows.Scan(&id, &departmentID); err != nil {
			return nil, err
		}
		out[id] = departmentID
	}
	return out, rows.Err()
}

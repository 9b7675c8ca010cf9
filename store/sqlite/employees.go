package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EmployeeRecord is the stored shape of an employee. The compensation
// plan stays JSON here; the factory converts it to the sum type at the
// API boundary.
type EmployeeRecord struct {
	ID               string
	Name             string
	Position         string
	Email            string
	CompensationJSON string
	HireDate         time.Time
	DeactivatedAt    *time.Time
	CreatedAt        time.Time
}

// CreateEmployee inserts a new employee record.
func (s *Store) CreateEmployee(ctx context.Context, e EmployeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deactivated sql.NullString
	if e.DeactivatedAt != nil {
		deactivated = sql.NullString{String: formatTime(*e.DeactivatedAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, position, email, compensation_json, hire_date, deactivated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Position, e.Email, e.CompensationJSON,
		formatTime(e.HireDate), deactivated, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetEmployee returns the employee with the given ID, or nil if absent.
func (s *Store) GetEmployee(ctx context.Context, id string) (*EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, position, email, compensation_json, hire_date, deactivated_at, created_at
		FROM employees WHERE id = ?`, id)

	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, position, email, compensation_json, hire_date, deactivated_at, created_at
		FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []EmployeeRecord
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// UpdateCompensation replaces an employee's compensation JSON.
func (s *Store) UpdateCompensation(ctx context.Context, id, compensationJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE employees SET compensation_json = ? WHERE id = ?`, compensationJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update compensation: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateEmployee marks the employee deactivated as of the given
// date. Idempotent: repeating keeps the first date.
func (s *Store) DeactivateEmployee(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET deactivated_at = ?
		WHERE id = ? AND deactivated_at IS NULL`,
		formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or already deactivated; distinguish for the caller.
		existing := s.db.QueryRowContext(ctx, `SELECT 1 FROM employees WHERE id = ?`, id)
		var one int
		if err := existing.Scan(&one); err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*EmployeeRecord, error) {
	var (
		e           EmployeeRecord
		email       sql.NullString
		hireDate    string
		deactivated sql.NullString
		createdAt   string
	)
	if err := r.Scan(&e.ID, &e.Name, &e.Position, &email, &e.CompensationJSON, &hireDate, &deactivated, &createdAt); err != nil {
		return nil, err
	}
	e.Email = email.String

	var err error
	if e.HireDate, err = parseTime(hireDate); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if deactivated.Valid {
		t, err := parseTime(deactivated.String)
		if err != nil {
			return nil, err
		}
		e.DeactivatedAt = &t
	}
	return &e, nil
}

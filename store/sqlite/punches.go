package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/payroll-engine/timeclock"
)

// PunchRecord is a stored clock event with its storage identity.
type PunchRecord struct {
	ID         string
	EmployeeID string
	Type       timeclock.PunchType
	At         time.Time
	CreatedAt  time.Time
}

// Punch converts to the engine's event type.
func (p PunchRecord) Punch() timeclock.Punch {
	return timeclock.Punch{EmployeeID: p.EmployeeID, Type: p.Type, At: p.At}
}

// RecordPunch appends one clock event. The stream is append-only;
// corrections happen by punching again, which the sequencer's dedup
// window resolves at read time.
func (s *Store) RecordPunch(ctx context.Context, p PunchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO punches (id, employee_id, punch_type, punch_time, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.EmployeeID, string(p.Type), formatTime(p.At), formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record punch: %w", err)
	}
	return nil
}

// PunchesInRange returns one employee's punches with punch_time in
// [from, to], in stored time order.
func (s *Store) PunchesInRange(ctx context.Context, employeeID string, from, to time.Time) ([]PunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, punch_type, punch_time, created_at
		FROM punches
		WHERE employee_id = ? AND punch_time >= ? AND punch_time <= ?
		ORDER BY punch_time, id`,
		employeeID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []PunchRecord
	for rows.Next() {
		var (
			p         PunchRecord
			punchType string
			punchTime string
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &punchType, &punchTime, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		p.Type = timeclock.PunchType(punchType)
		if p.At, err = parseTime(punchTime); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

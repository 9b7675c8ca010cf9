package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MANUAL PAYMENTS
// =============================================================================

// ManualPaymentRecord is a stored one-off payment.
type ManualPaymentRecord struct {
	ID          string
	EmployeeID  string
	PaidOn      time.Time
	AmountCents payroll.Cents
	Description string
	CreatedAt   time.Time
}

// AddManualPayment records a dated one-off payment.
func (s *Store) AddManualPayment(ctx context.Context, m ManualPaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manual_payments (id, employee_id, paid_on, amount_cents, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.EmployeeID, formatTime(m.PaidOn), int64(m.AmountCents), m.Description, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add manual payment: %w", err)
	}
	return nil
}

// ManualPaymentsInRange returns one employee's payments dated within
// [from, to], oldest first, as engine inputs.
func (s *Store) ManualPaymentsInRange(ctx context.Context, employeeID string, from, to time.Time) ([]payroll.ManualPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT paid_on, amount_cents, description
		FROM manual_payments
		WHERE employee_id = ? AND paid_on >= ? AND paid_on <= ?
		ORDER BY paid_on, id`,
		employeeID, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query manual payments: %w", err)
	}
	defer rows.Close()

	var payments []payroll.ManualPayment
	for rows.Next() {
		var (
			paidOn string
			amount int64
			desc   string
		)
		if err := rows.Scan(&paidOn, &amount, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan manual payment: %w", err)
		}
		date, err := parseTime(paidOn)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payroll.ManualPayment{
			Date:        date,
			AmountCents: payroll.Cents(amount),
			Description: desc,
		})
	}
	return payments, rows.Err()
}

// =============================================================================
// TIP LEDGER
// =============================================================================

// TipKind distinguishes tips earned from tips already paid out in cash.
type TipKind string

const (
	TipEarned  TipKind = "earned"
	TipPaidOut TipKind = "paid_out"
)

// TipEntryRecord is one dated tip ledger entry.
type TipEntryRecord struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Kind        TipKind
	AmountCents payroll.Cents
	CreatedAt   time.Time
}

// AddTipEntry records a tip ledger entry.
func (s *Store) AddTipEntry(ctx context.Context, t TipEntryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tip_entries (id, employee_id, entry_date, kind, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.EmployeeID, formatTime(t.Date), string(t.Kind), int64(t.AmountCents), formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add tip entry: %w", err)
	}
	return nil
}

// TipTotalsInRange sums one employee's earned and paid-out tips for
// entries dated within [from, to].
func (s *Store) TipTotalsInRange(ctx context.Context, employeeID string, from, to time.Time) (earned, paidOut payroll.Cents, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COALESCE(SUM(amount_cents), 0)
		FROM tip_entries
		WHERE employee_id = ? AND entry_date >= ? AND entry_date <= ?
		GROUP BY kind`,
		employeeID, formatTime(from), formatTime(to))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query tip totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind  string
			total int64
		)
		if err := rows.Scan(&kind, &total); err != nil {
			return 0, 0, fmt.Errorf("failed to scan tip totals: %w", err)
		}
		switch TipKind(kind) {
		case TipEarned:
			earned = payroll.Cents(total)
		case TipPaidOut:
			paidOut = payroll.Cents(total)
		}
	}
	return earned, paidOut, rows.Err()
}

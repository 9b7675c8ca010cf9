package payroll

import "time"

// =============================================================================
// EMPLOYEE + COLLABORATOR INPUTS
// =============================================================================

// Employee is the compensation-relevant slice of an employee record.
type Employee struct {
	ID       string
	Name     string
	Position string
	Email    string
	HireDate time.Time

	// DeactivatedAt is nil while the employee is active.
	DeactivatedAt *time.Time

	Plan Plan
}

func (e Employee) Active() bool { return e.DeactivatedAt == nil }

// ManualPayment is an explicit dated payment outside the automatic
// compensation formulas. Primarily per-job contractor payments that
// cannot be auto-prorated.
type ManualPayment struct {
	Date        time.Time
	AmountCents Cents
	Description string
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  All amounts in DTOs are integer cents. Dollar rendering is a client
  (or CSV export) concern.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/plan.go: CompensationJSON type
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/timeclock"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	Position      string                   `json:"position"`
	Email         string                   `json:"email,omitempty"`
	HireDate      string                   `json:"hire_date"`
	Active        bool                     `json:"active"`
	DeactivatedAt string                   `json:"deactivated_at,omitempty"`
	Compensation  factory.CompensationJSON `json:"compensation"`
	CreatedAt     string                   `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	Name         string                   `json:"name"`
	Position     string                   `json:"position"`
	Email        string                   `json:"email,omitempty"`
	HireDate     string                   `json:"hire_date"`
	Compensation factory.CompensationJSON `json:"compensation"`
}

// DeactivateEmployeeRequest sets the deactivation date. Empty means
// today.
type DeactivateEmployeeRequest struct {
	Date string `json:"date,omitempty"`
}

// =============================================================================
// PUNCHES
// =============================================================================

// PunchDTO represents a clock event in API responses.
type PunchDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	PunchType  string `json:"punch_type"`
	PunchTime  string `json:"punch_time"`
}

// RecordPunchRequest records one clock event.
type RecordPunchRequest struct {
	PunchType string `json:"punch_type"`
	PunchTime string `json:"punch_time"`
}

// =============================================================================
// PAYMENTS AND TIPS
// =============================================================================

// CreateManualPaymentRequest records a one-off payment.
type CreateManualPaymentRequest struct {
	Date        string `json:"date"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description,omitempty"`
}

// CreateTipEntryRequest records a tip ledger entry.
type CreateTipEntryRequest struct {
	Date        string `json:"date"`
	Kind        string `json:"kind"` // "earned" or "paid_out"
	AmountCents int64  `json:"amount_cents"`
}

// =============================================================================
// PAYROLL
// =============================================================================

// EmployeePayrollDTO is one employee's computed pay.
type EmployeePayrollDTO struct {
	EmployeeID      string       `json:"employee_id"`
	Name            string       `json:"name"`
	Position        string       `json:"position"`
	HourlyRateCents int64        `json:"hourly_rate_cents,omitempty"`
	RegularHours    float64      `json:"regular_hours"`
	OvertimeHours   float64      `json:"overtime_hours"`
	RegularPay      int64        `json:"regular_pay_cents"`
	OvertimePay     int64        `json:"overtime_pay_cents"`
	SalaryPay       int64        `json:"salary_pay_cents"`
	ContractorPay   int64        `json:"contractor_pay_cents"`
	DailyRatePay    int64        `json:"daily_rate_pay_cents"`
	ManualPay       int64        `json:"manual_pay_cents"`
	GrossPay        int64        `json:"gross_pay_cents"`
	TipsEarned      int64        `json:"tips_earned_cents"`
	TipsPaidOut     int64        `json:"tips_paid_out_cents"`
	TipsOwed        int64        `json:"tips_owed_cents"`
	TotalPay        int64        `json:"total_pay_cents"`
	Anomalies       []AnomalyDTO `json:"anomalies,omitempty"`
}

// PayrollPeriodDTO is the period rollup.
type PayrollPeriodDTO struct {
	Start     string               `json:"start"`
	End       string               `json:"end"`
	Employees []EmployeePayrollDTO `json:"employees"`
	Totals    PeriodTotalsDTO      `json:"totals"`
}

// PeriodTotalsDTO sums the period's hours and money.
type PeriodTotalsDTO struct {
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	RegularPay    int64   `json:"regular_pay_cents"`
	OvertimePay   int64   `json:"overtime_pay_cents"`
	GrossPay      int64   `json:"gross_pay_cents"`
	TipsEarned    int64   `json:"tips_earned_cents"`
	TipsPaidOut   int64   `json:"tips_paid_out_cents"`
	TipsOwed      int64   `json:"tips_owed_cents"`
	TotalPay      int64   `json:"total_pay_cents"`
}

// AnomalyDTO is a punch-sequence irregularity for the review queue.
type AnomalyDTO struct {
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	AnchorTime string `json:"anchor_time"`
	Message    string `json:"message"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func anomalyDTOs(anomalies []timeclock.Anomaly) []AnomalyDTO {
	if len(anomalies) == 0 {
		return nil
	}
	out := make([]AnomalyDTO, len(anomalies))
	for i, a := range anomalies {
		out[i] = AnomalyDTO{
			EmployeeID: a.EmployeeID,
			Kind:       string(a.Kind),
			AnchorTime: a.AnchorTime.Format(time.RFC3339),
			Message:    a.Message,
		}
	}
	return out
}

func employeePayrollDTO(ep payroll.EmployeePayroll) EmployeePayrollDTO {
	return EmployeePayrollDTO{
		EmployeeID:      ep.EmployeeID,
		Name:            ep.Name,
		Position:        ep.Position,
		HourlyRateCents: int64(ep.HourlyRateCents),
		RegularHours:    ep.RegularHours,
		OvertimeHours:   ep.OvertimeHours,
		RegularPay:      int64(ep.RegularPay),
		OvertimePay:     int64(ep.OvertimePay),
		SalaryPay:       int64(ep.SalaryPay),
		ContractorPay:   int64(ep.ContractorPay),
		DailyRatePay:    int64(ep.DailyRatePay),
		ManualPay:       int64(ep.ManualPay),
		GrossPay:        int64(ep.GrossPay),
		TipsEarned:      int64(ep.TipsEarned),
		TipsPaidOut:     int64(ep.TipsPaidOut),
		TipsOwed:        int64(ep.TipsOwed),
		TotalPay:        int64(ep.TotalPay),
		Anomalies:       anomalyDTOs(ep.Anomalies),
	}
}

func payrollPeriodDTO(p payroll.PayrollPeriod) PayrollPeriodDTO {
	dto := PayrollPeriodDTO{
		Start: p.Start.Format("2006-01-02"),
		End:   p.End.Format("2006-01-02"),
		Totals: PeriodTotalsDTO{
			RegularHours:  p.Totals.RegularHours,
			OvertimeHours: p.Totals.OvertimeHours,
			RegularPay:    int64(p.Totals.RegularPay),
			OvertimePay:   int64(p.Totals.OvertimePay),
			GrossPay:      int64(p.Totals.GrossPay),
			TipsEarned:    int64(p.Totals.TipsEarned),
			TipsPaidOut:   int64(p.Totals.TipsPaidOut),
			TipsOwed:      int64(p.Totals.TipsOwed),
			TotalPay:      int64(p.Totals.TotalPay),
		},
	}
	dto.Employees = make([]EmployeePayrollDTO, len(p.Employees))
	for i, ep := range p.Employees {
		dto.Employees[i] = employeePayrollDTO(ep)
	}
	return dto
}

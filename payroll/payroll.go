/*
payroll.go - Per-employee computation and period rollup

PURPOSE:
  The aggregation layer: folds parsed work time, the compensation
  formulas, manual payments, and tip reconciliation into EmployeePayroll
  results, then rolls those into a PayrollPeriod summary.

PURITY:
  Everything here is a pure transformation from in-memory inputs to a
  fresh result. No I/O, no shared state, no clocks. Each employee's
  computation is independent, so callers can fan out per employee and
  just collect; re-running on identical inputs yields byte-identical
  cent totals.

TIP RECONCILIATION:
  tipsOwed = max(0, earned - paidOut). Tips already disbursed as cash
  are never paid again through payroll. An earlier rule that added
  earned tips unconditionally is superseded by this one.

SEE ALSO:
  - compensation.go: The four pay formulas
  - timeclock: Punch parsing and overtime allocation
*/
package payroll

import (
	"time"

	"github.com/warp/payroll-engine/timeclock"
)

// =============================================================================
// INPUTS
// =============================================================================

// EmployeeData bundles one employee's collaborator-supplied inputs for a
// payroll run. Punches should span the period plus enough margin to
// resolve overnight shifts at the edges.
type EmployeeData struct {
	Employee       Employee
	Punches        []timeclock.Punch
	TipsEarned     Cents
	TipsPaidOut    Cents
	ManualPayments []ManualPayment
}

// =============================================================================
// OUTPUTS
// =============================================================================

// EmployeePayroll is one employee's computed pay for a period.
// Constructed fresh per computation, never mutated after return.
type EmployeePayroll struct {
	EmployeeID string
	Name       string
	Position   string

	// HourlyRateCents is zero for non-hourly employees.
	HourlyRateCents Cents

	RegularHours  float64
	OvertimeHours float64

	// Exactly one of the five auto-computed components is non-zero per
	// employee; ManualPay may coexist with per-job contractor pay.
	RegularPay    Cents
	OvertimePay   Cents
	SalaryPay     Cents
	ContractorPay Cents
	DailyRatePay  Cents
	ManualPay     Cents

	GrossPay Cents

	TipsEarned  Cents
	TipsPaidOut Cents
	TipsOwed    Cents

	TotalPay Cents

	Anomalies []timeclock.Anomaly
}

// PeriodTotals is the cross-employee sum. A straightforward fold with no
// cross-employee interaction.
type PeriodTotals struct {
	RegularHours  float64
	OvertimeHours float64
	RegularPay    Cents
	OvertimePay   Cents
	GrossPay      Cents
	TipsEarned    Cents
	TipsPaidOut   Cents
	TipsOwed      Cents
	TotalPay      Cents
}

// PayrollPeriod is the period-level rollup.
type PayrollPeriod struct {
	Start     time.Time
	End       time.Time
	WeekStart time.Weekday
	Employees []EmployeePayroll
	Totals    PeriodTotals
}

// =============================================================================
// PER-EMPLOYEE COMPUTATION
// =============================================================================

// ComputeEmployeePay computes one employee's payroll for [start, end]
// (calendar dates, both inclusive). The only error it can return is an
// eager configuration rejection; dirty punch data degrades to anomalies
// on the result instead.
func ComputeEmployeePay(d EmployeeData, start, end time.Time, weekStart time.Weekday) (EmployeePayroll, error) {
	if end.Before(start) {
		return EmployeePayroll{}, ErrInvalidPeriod
	}
	if d.Employee.Plan == nil {
		return EmployeePayroll{}, &InvalidCompensationTypeError{Type: ""}
	}
	if err := d.Employee.Plan.Validate(); err != nil {
		return EmployeePayroll{}, err
	}

	periods, anomalies := timeclock.ParseWorkPeriods(d.Punches)
	periods = clipToPeriod(periods, start, end)
	weeks := timeclock.AllocateOvertime(periods, weekStart)

	result := EmployeePayroll{
		EmployeeID:  d.Employee.ID,
		Name:        d.Employee.Name,
		Position:    d.Employee.Position,
		TipsEarned:  d.TipsEarned,
		TipsPaidOut: d.TipsPaidOut,
		Anomalies:   anomalies,
	}

	for _, w := range weeks {
		result.RegularHours += w.RegularHours()
		result.OvertimeHours += w.OvertimeHours()
	}

	switch plan := d.Employee.Plan.(type) {
	case Hourly:
		result.HourlyRateCents = plan.RateCents
		result.RegularPay, result.OvertimePay = plan.PeriodPay(weeks)
	case Salary:
		result.SalaryPay = plan.PeriodPay(start, end)
	case Contractor:
		result.ContractorPay = plan.PeriodPay(start, end)
	case DailyRate:
		result.DailyRatePay = plan.PeriodPay(countPunchDays(d.Punches, start, end))
	}

	for _, mp := range d.ManualPayments {
		result.ManualPay += mp.AmountCents
	}

	result.GrossPay = result.RegularPay + result.OvertimePay + result.SalaryPay +
		result.ContractorPay + result.DailyRatePay + result.ManualPay

	if owed := d.TipsEarned - d.TipsPaidOut; owed > 0 {
		result.TipsOwed = owed
	}
	result.TotalPay = result.GrossPay + result.TipsOwed

	return result, nil
}

// clipToPeriod keeps work periods that begin inside [start, end]. Margin
// punches fetched to resolve overnight shifts must not add paid time to
// this period; the adjacent periods pick them up.
func clipToPeriod(periods []timeclock.WorkPeriod, start, end time.Time) []timeclock.WorkPeriod {
	cutoff := endOfDay(end)
	var kept []timeclock.WorkPeriod
	for _, p := range periods {
		if p.Start.Before(start) || p.Start.After(cutoff) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// countPunchDays counts distinct calendar dates with at least one punch
// inside [start, end]. Punch count per day is irrelevant.
func countPunchDays(punches []timeclock.Punch, start, end time.Time) int {
	cutoff := endOfDay(end)
	seen := make(map[string]struct{})
	for _, p := range punches {
		if p.At.Before(start) || p.At.After(cutoff) {
			continue
		}
		seen[p.At.Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// =============================================================================
// EMPLOYEE INCLUSION RULE
// =============================================================================

// IncludeInPeriod reports whether an employee belongs in a period
// starting at periodStart. Active employees always do. A deactivated
// employee is included only while the period starts on or before the end
// of the calendar week containing the deactivation date, so a terminated
// employee is paid for their final partial week exactly once and then
// disappears.
func IncludeInPeriod(e Employee, periodStart time.Time, weekStart time.Weekday) bool {
	if e.DeactivatedAt == nil {
		return true
	}
	lastWeekEnd := timeclock.WeekOf(*e.DeactivatedAt, weekStart).AddDate(0, 0, 7).Add(-time.Nanosecond)
	return !periodStart.After(lastWeekEnd)
}

// =============================================================================
// PERIOD ROLLUP
// =============================================================================

// ComputePeriod runs per-employee computation for every includable
// employee and folds the totals. Employee order in the result follows
// input order, so identical inputs produce identical output.
func ComputePeriod(start, end time.Time, weekStart time.Weekday, data []EmployeeData) (PayrollPeriod, error) {
	if end.Before(start) {
		return PayrollPeriod{}, ErrInvalidPeriod
	}

	period := PayrollPeriod{Start: start, End: end, WeekStart: weekStart}
	for _, d := range data {
		if !IncludeInPeriod(d.Employee, start, weekStart) {
			continue
		}
		ep, err := ComputeEmployeePay(d, start, end, weekStart)
		if err != nil {
			return PayrollPeriod{}, err
		}
		period.Employees = append(period.Employees, ep)

		period.Totals.RegularHours += ep.RegularHours
		period.Totals.OvertimeHours += ep.OvertimeHours
		period.Totals.RegularPay += ep.RegularPay
		period.Totals.OvertimePay += ep.OvertimePay
		period.Totals.GrossPay += ep.GrossPay
		period.Totals.TipsEarned += ep.TipsEarned
		period.Totals.TipsPaidOut += ep.TipsPaidOut
		period.Totals.TipsOwed += ep.TipsOwed
		period.Totals.TotalPay += ep.TotalPay
	}
	return period, nil
}

// Anomalies flattens every employee's anomalies for a manager-review
// queue.
func (p PayrollPeriod) Anomalies() []timeclock.Anomaly {
	var all []timeclock.Anomaly
	for _, ep := range p.Employees {
		all = append(all, ep.Anomalies...)
	}
	return all
}

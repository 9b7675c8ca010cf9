/*
compensation.go - The four compensation models

PURPOSE:
  Computes gross pay per compensation type. The plan is a sealed sum
  type (Hourly | Salary | Contractor | DailyRate) rather than a flat
  record of optional fields, so code can never read the wrong sub-shape
  for a given type.

THE FOUR MODELS:
  Hourly:     rate x hours, overtime at 1.5x, rounded per week
  Salary:     fixed average daily allocation x days in period, or zero
              when recognized on the paycheck date instead
  Contractor: interval payment prorated daily, or manual payments only
              for per-job contractors
  DailyRate:  weekly reference / standard days, paid per distinct
              calendar day actually worked

PRORATION CONSTANTS:
  Days per pay period are fixed averages, not exact calendar counts:
  weekly=7, bi-weekly=14, semi-monthly=15.22, monthly=30.44. February
  and 31-day months intentionally share the same average; this is an
  approximation carried over from the business rules, not a bug.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/timeclock"
)

// =============================================================================
// COMPENSATION SUM TYPE
// =============================================================================

type CompensationType string

const (
	TypeHourly     CompensationType = "hourly"
	TypeSalary     CompensationType = "salary"
	TypeContractor CompensationType = "contractor"
	TypeDailyRate  CompensationType = "daily_rate"
)

type PayPeriodType string

const (
	PeriodWeekly      PayPeriodType = "weekly"
	PeriodBiWeekly    PayPeriodType = "bi_weekly"
	PeriodSemiMonthly PayPeriodType = "semi_monthly"
	PeriodMonthly     PayPeriodType = "monthly"
)

type ContractorInterval string

const (
	IntervalWeekly   ContractorInterval = "weekly"
	IntervalBiWeekly ContractorInterval = "bi_weekly"
	IntervalMonthly  ContractorInterval = "monthly"
	IntervalPerJob   ContractorInterval = "per_job"
)

// Plan is the sealed compensation union. Exactly one concrete shape is
// meaningful per employee.
type Plan interface {
	Kind() CompensationType

	// Validate rejects invalid setup before any payroll run.
	Validate() error

	isPlan()
}

// Compile-time checks that all four shapes implement Plan.
var (
	_ Plan = Hourly{}
	_ Plan = Salary{}
	_ Plan = Contractor{}
	_ Plan = DailyRate{}
)

// =============================================================================
// PRORATION CONSTANTS
// =============================================================================

// Fixed average days per pay period. Semi-monthly and monthly use
// 365.25/24 and 365.25/12 style averages rather than exact calendar
// day counts.
var daysPerPayPeriod = map[PayPeriodType]decimal.Decimal{
	PeriodWeekly:      decimal.NewFromInt(7),
	PeriodBiWeekly:    decimal.NewFromInt(14),
	PeriodSemiMonthly: decimal.RequireFromString("15.22"),
	PeriodMonthly:     decimal.RequireFromString("30.44"),
}

// Paychecks per year by pay period type, for annualizing.
var paychecksPerYear = map[PayPeriodType]int64{
	PeriodWeekly:      52,
	PeriodBiWeekly:    26,
	PeriodSemiMonthly: 24,
	PeriodMonthly:     12,
}

var daysPerContractorInterval = map[ContractorInterval]decimal.Decimal{
	IntervalWeekly:   decimal.NewFromInt(7),
	IntervalBiWeekly: decimal.NewFromInt(14),
	IntervalMonthly:  decimal.RequireFromString("30.44"),
}

// daysInclusive counts calendar days in [start, end], both ends included.
func daysInclusive(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s)/(24*time.Hour)) + 1
}

// =============================================================================
// HOURLY
// =============================================================================

// Hourly pays rate x worked hours, overtime at 1.5x.
type Hourly struct {
	RateCents Cents
}

func (Hourly) Kind() CompensationType { return TypeHourly }
func (Hourly) isPlan()                {}

func (h Hourly) Validate() error {
	if h.RateCents <= 0 {
		return &MissingCompensationFieldError{CompensationType: TypeHourly, Field: "hourly rate"}
	}
	return nil
}

// WeekPay prices one week's allocated time. Rounding happens here, at
// the week boundary, so cent drift never accumulates across weeks.
func (h Hourly) WeekPay(week timeclock.WeekTotals) (regular, overtime Cents) {
	regular = payForDuration(week.Regular, h.RateCents, 1)
	overtime = payForDuration(week.Overtime, h.RateCents, timeclock.OvertimeMultiplier)
	return regular, overtime
}

// PeriodPay sums weekly pay across all weeks in the period.
func (h Hourly) PeriodPay(weeks []timeclock.WeekTotals) (regular, overtime Cents) {
	for _, w := range weeks {
		r, o := h.WeekPay(w)
		regular += r
		overtime += o
	}
	return regular, overtime
}

// =============================================================================
// SALARY
// =============================================================================

// Salary pays a fixed amount per pay period. When AllocateDaily is set
// the salary is spread over calendar days for period rollups (accrual
// basis); otherwise the full amount is recognized on the paycheck date
// and the period contribution here is zero (cash basis).
type Salary struct {
	AmountCents   Cents
	Period        PayPeriodType
	AllocateDaily bool
}

func (Salary) Kind() CompensationType { return TypeSalary }
func (Salary) isPlan()                {}

func (s Salary) Validate() error {
	if s.AmountCents <= 0 {
		return &MissingCompensationFieldError{CompensationType: TypeSalary, Field: "salary amount"}
	}
	if _, ok := daysPerPayPeriod[s.Period]; !ok {
		return &MissingCompensationFieldError{CompensationType: TypeSalary, Field: "pay period type"}
	}
	return nil
}

// DailyAllocation is the salary spread over the period's average day
// count, rounded to cents.
func (s Salary) DailyAllocation() Cents {
	return roundCents(s.AmountCents.Decimal().Div(daysPerPayPeriod[s.Period]))
}

func (s Salary) PeriodPay(start, end time.Time) Cents {
	if !s.AllocateDaily {
		return 0
	}
	return s.DailyAllocation() * Cents(daysInclusive(start, end))
}

// AnnualCents is the salary annualized by paycheck count.
func (s Salary) AnnualCents() Cents {
	return s.AmountCents * Cents(paychecksPerYear[s.Period])
}

// EffectiveHourlyCents derives an hourly-equivalent rate for reporting
// and sanity checks on entered amounts, assuming hoursPerWeek.
func (s Salary) EffectiveHourlyCents(hoursPerWeek float64) Cents {
	hoursPerYear := decimal.NewFromFloat(hoursPerWeek).Mul(decimal.NewFromInt(52))
	if hoursPerYear.IsZero() {
		return 0
	}
	return roundCents(s.AnnualCents().Decimal().Div(hoursPerYear))
}

// =============================================================================
// CONTRACTOR
// =============================================================================

// Contractor pays a flat amount per interval, prorated daily. Per-job
// contractors are never auto-prorated; their pay is realized only
// through explicit manual payments.
type Contractor struct {
	AmountCents Cents
	Interval    ContractorInterval
}

func (Contractor) Kind() CompensationType { return TypeContractor }
func (Contractor) isPlan()                {}

func (c Contractor) Validate() error {
	if c.Interval == IntervalPerJob {
		// Amount is irrelevant for per-job: everything flows through
		// manual payments.
		return nil
	}
	if _, ok := daysPerContractorInterval[c.Interval]; !ok {
		return &MissingCompensationFieldError{CompensationType: TypeContractor, Field: "contractor interval"}
	}
	if c.AmountCents <= 0 {
		return &MissingCompensationFieldError{CompensationType: TypeContractor, Field: "contractor payment amount"}
	}
	return nil
}

func (c Contractor) PeriodPay(start, end time.Time) Cents {
	if c.Interval == IntervalPerJob {
		return 0
	}
	daily := roundCents(c.AmountCents.Decimal().Div(daysPerContractorInterval[c.Interval]))
	return daily * Cents(daysInclusive(start, end))
}

// =============================================================================
// DAILY RATE
// =============================================================================

// DailyRate pays a fixed amount per calendar day actually worked,
// independent of hours. Unlike salary there is no proration over
// calendar days elapsed; only days with at least one punch are paid.
type DailyRate struct {
	WeeklyReferenceCents Cents
	StandardDays         int
}

func (DailyRate) Kind() CompensationType { return TypeDailyRate }
func (DailyRate) isPlan()                {}

func (d DailyRate) Validate() error {
	if d.WeeklyReferenceCents <= 0 {
		return &MissingCompensationFieldError{CompensationType: TypeDailyRate, Field: "weekly reference amount"}
	}
	if d.StandardDays <= 0 {
		return &MissingCompensationFieldError{CompensationType: TypeDailyRate, Field: "standard days per week"}
	}
	return nil
}

// DailyAmount is the weekly reference split over the standard work week.
func (d DailyRate) DailyAmount() Cents {
	return roundCents(d.WeeklyReferenceCents.Decimal().Div(decimal.NewFromInt(int64(d.StandardDays))))
}

func (d DailyRate) PeriodPay(daysWorked int) Cents {
	return d.DailyAmount() * Cents(daysWorked)
}

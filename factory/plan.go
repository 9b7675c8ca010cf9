/*
Package factory provides JSON to Go compensation-plan conversion.

PURPOSE:
  Converts JSON compensation definitions into payroll.Plan values. This
  enables compensation configuration without code changes - managers set
  up pay in the admin UI, the config is stored as JSON, and the factory
  produces the proper sum-type shape.

JSON SCHEMA:
  {
    "compensation_type": "hourly",
    "hourly_rate_cents": 1500
  }

  {
    "compensation_type": "salary",
    "salary_amount_cents": 250000,
    "pay_period_type": "semi_monthly",
    "allocate_daily": true
  }

  {
    "compensation_type": "contractor",
    "contractor_payment_amount_cents": 400000,
    "contractor_interval": "monthly"
  }

  {
    "compensation_type": "daily_rate",
    "daily_rate_weekly_reference_cents": 100000,
    "daily_rate_standard_days": 5
  }

VALIDATION:
  Parsing validates eagerly: a plan that would fail mid-computation is
  rejected here, at setup time, with payroll's configuration errors
  (MissingCompensationField, InvalidCompensationType).

SEE ALSO:
  - payroll/compensation.go: The Plan sum type
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CompensationJSON is the flat JSON representation of a compensation
// plan. Only the fields for the declared type are read; the factory
// converts to the sealed sum type so nothing downstream can touch the
// wrong sub-shape.
type CompensationJSON struct {
	CompensationType string `json:"compensation_type"`

	// hourly
	HourlyRateCents int64 `json:"hourly_rate_cents,omitempty"`

	// salary
	SalaryAmountCents int64  `json:"salary_amount_cents,omitempty"`
	PayPeriodType     string `json:"pay_period_type,omitempty"`
	AllocateDaily     *bool  `json:"allocate_daily,omitempty"` // default true

	// contractor
	ContractorPaymentAmountCents int64  `json:"contractor_payment_amount_cents,omitempty"`
	ContractorInterval           string `json:"contractor_interval,omitempty"`

	// daily_rate
	DailyRateWeeklyReferenceCents int64 `json:"daily_rate_weekly_reference_cents,omitempty"`
	DailyRateStandardDays         int   `json:"daily_rate_standard_days,omitempty"`
}

// =============================================================================
// PLAN FACTORY
// =============================================================================

// PlanFactory converts JSON compensation configs to payroll.Plan values.
type PlanFactory struct{}

// NewPlanFactory creates a new plan factory.
func NewPlanFactory() *PlanFactory {
	return &PlanFactory{}
}

// ParsePlan parses a JSON string into a validated Plan.
func (f *PlanFactory) ParsePlan(jsonStr string) (payroll.Plan, error) {
	var cj CompensationJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("failed to parse compensation JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts CompensationJSON to a validated Plan.
func (f *PlanFactory) FromJSON(cj CompensationJSON) (payroll.Plan, error) {
	var plan payroll.Plan

	switch payroll.CompensationType(cj.CompensationType) {
	case payroll.TypeHourly:
		plan = payroll.Hourly{RateCents: payroll.Cents(cj.HourlyRateCents)}

	case payroll.TypeSalary:
		allocate := true
		if cj.AllocateDaily != nil {
			allocate = *cj.AllocateDaily
		}
		plan = payroll.Salary{
			AmountCents:   payroll.Cents(cj.SalaryAmountCents),
			Period:        payroll.PayPeriodType(cj.PayPeriodType),
			AllocateDaily: allocate,
		}

	case payroll.TypeContractor:
		plan = payroll.Contractor{
			AmountCents: payroll.Cents(cj.ContractorPaymentAmountCents),
			Interval:    payroll.ContractorInterval(cj.ContractorInterval),
		}

	case payroll.TypeDailyRate:
		plan = payroll.DailyRate{
			WeeklyReferenceCents: payroll.Cents(cj.DailyRateWeeklyReferenceCents),
			StandardDays:         cj.DailyRateStandardDays,
		}

	default:
		return nil, &payroll.InvalidCompensationTypeError{Type: cj.CompensationType}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// ToJSON converts a Plan back to its JSON representation, for storage
// and API responses.
func ToJSON(plan payroll.Plan) CompensationJSON {
	cj := CompensationJSON{CompensationType: string(plan.Kind())}

	switch p := plan.(type) {
	case payroll.Hourly:
		cj.HourlyRateCents = int64(p.RateCents)
	case payroll.Salary:
		cj.SalaryAmountCents = int64(p.AmountCents)
		cj.PayPeriodType = string(p.Period)
		allocate := p.AllocateDaily
		cj.AllocateDaily = &allocate
	case payroll.Contractor:
		cj.ContractorPaymentAmountCents = int64(p.AmountCents)
		cj.ContractorInterval = string(p.Interval)
	case payroll.DailyRate:
		cj.DailyRateWeeklyReferenceCents = int64(p.WeeklyReferenceCents)
		cj.DailyRateStandardDays = p.StandardDays
	}
	return cj
}

package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point cents
// =============================================================================

// Cents is a monetary amount in whole US cents. All money crossing a
// component boundary is a non-negative Cents; floating-point currency
// never does.
type Cents int64

func (c Cents) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(c)) }

// Dollars converts to fractional dollars. Formatting boundary only.
func (c Cents) Dollars() float64 { return float64(c) / 100 }

// roundCents rounds a decimal cent amount to a whole number of cents,
// half away from zero.
func roundCents(d decimal.Decimal) Cents {
	return Cents(d.Round(0).IntPart())
}

// payForDuration prices a worked duration at rate cents/hour, scaled by
// multiplier, rounded to whole cents. Duration math stays in integer
// seconds so identical inputs always produce identical cents.
func payForDuration(worked time.Duration, rate Cents, multiplier float64) Cents {
	seconds := decimal.NewFromInt(int64(worked / time.Second))
	amount := seconds.Mul(rate.Decimal()).
		Mul(decimal.NewFromFloat(multiplier)).
		Div(decimal.NewFromInt(3600))
	return roundCents(amount)
}

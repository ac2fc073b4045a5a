package decimal

import (
	"math"

	"github.com/shopspring/decimal"
)

// Money represents a dollar amount carried at full precision through a projection
type Money struct {
	decimal.Decimal
}

var (
	twelve   = decimal.NewFromInt(12)
	thousand = decimal.NewFromInt(1000)
)

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Thousands expresses the amount in thousands of dollars, the unit used in reports
func (m Money) Thousands() Money {
	return Money{m.Decimal.Div(thousand)}
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// String returns the amount fixed to two places
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the amount with a currency sign, parenthesising negatives
func (m Money) Format() string {
	if m.Decimal.IsNegative() {
		return "($" + m.Decimal.Neg().StringFixed(2) + ")"
	}
	return "$" + m.String()
}

// PerAreaMonthly converts an annual per-area rate into a monthly dollar amount
func PerAreaMonthly(area, annualRate decimal.Decimal) decimal.Decimal {
	return area.Mul(annualRate).Div(twelve)
}

// Monthly converts an annual amount to monthly
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// Sum adds a list of decimals
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// PowFloat raises base to a fractional exponent in float64 space.
// shopspring's Pow truncates non-integer exponents, so fractional escalation
// factors are computed here and converted back.
func PowFloat(base decimal.Decimal, exp float64) decimal.Decimal {
	return decimal.NewFromFloat(math.Pow(base.InexactFloat64(), exp))
}

// PowInt raises base to a non-negative integer power, rounding each step to
// keep precision bounded.
func PowInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for i := 0; i < exp; i++ {
		result = result.Mul(base).Round(20)
	}
	return result
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(v, hi))
}

// NonNegative returns v, or zero when v is negative
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// ToFloats converts a decimal series for float-based solvers
func ToFloats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

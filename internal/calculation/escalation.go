package calculation

import (
	"github.com/rpgo/cre-proforma/internal/domain"
	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// RentEscalation returns the monthly-compounded rent factor (1 + r/12)^p
func RentEscalation(annualRate decimal.Decimal, period int) decimal.Decimal {
	if period <= 0 || annualRate.IsZero() {
		return one
	}
	return money.PowInt(one.Add(annualRate.Div(twelve)), period)
}

// ExpenseEscalation returns the annual-equivalent expense factor (1 + r)^(p/12).
// Whole years are computed exactly so that period 12 yields 1 + r.
func ExpenseEscalation(annualRate decimal.Decimal, period int) decimal.Decimal {
	if period <= 0 || annualRate.IsZero() {
		return one
	}
	base := one.Add(annualRate)
	if period%12 == 0 {
		return money.PowInt(base, period/12)
	}
	return money.PowFloat(base, float64(period)/12.0)
}

// PropertyTaxEscalation returns the property tax factor for a period. Stepped
// mode holds the factor flat through each lease year and steps on months 13, 25, ...
func PropertyTaxEscalation(annualRate decimal.Decimal, period int, mode domain.EscalationMode) decimal.Decimal {
	if mode == domain.EscalationContinuous {
		return ExpenseEscalation(annualRate, period)
	}
	if period <= 12 || annualRate.IsZero() {
		return one
	}
	return money.PowInt(one.Add(annualRate), (period-1)/12)
}

// Escalate applies a growth factor to a base amount
func Escalate(base, factor decimal.Decimal) decimal.Decimal {
	return base.Mul(factor)
}

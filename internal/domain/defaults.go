package domain

import (
	"github.com/shopspring/decimal"
)

// Defaults centralises the fallback assumptions applied when an input leaves a field unset
type Defaults struct {
	InterestRate         decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`                   // Default: 0.0525
	CommissionEarlyYears int             `yaml:"commission_early_years" json:"commission_early_years"` // Default: 5
	ForwardMonths        int             `yaml:"forward_months" json:"forward_months"`                 // Default: 12
	DayCount             DayCount        `yaml:"day_count" json:"day_count"`                           // Default: actual/365
	PropertyTaxMode      EscalationMode  `yaml:"property_tax_mode" json:"property_tax_mode"`           // Default: stepped
	IRRTolerance         float64         `yaml:"irr_tolerance" json:"irr_tolerance"`                   // Default: 1e-7
	IRRMaxIterations     int             `yaml:"irr_max_iterations" json:"irr_max_iterations"`         // Default: 100
}

// StandardDefaults returns the default assumption set
func StandardDefaults() Defaults {
	return Defaults{
		InterestRate:         decimal.NewFromFloat(0.0525),
		CommissionEarlyYears: 5,
		ForwardMonths:        12,
		DayCount:             DayCountActual365,
		PropertyTaxMode:      EscalationStepped,
		IRRTolerance:         1e-7,
		IRRMaxIterations:     100,
	}
}

// Merge fills any zero field of d from fallback
func (d Defaults) Merge(fallback Defaults) Defaults {
	if d.InterestRate.IsZero() {
		d.InterestRate = fallback.InterestRate
	}
	if d.CommissionEarlyYears == 0 {
		d.CommissionEarlyYears = fallback.CommissionEarlyYears
	}
	if d.ForwardMonths == 0 {
		d.ForwardMonths = fallback.ForwardMonths
	}
	if d.DayCount == "" {
		d.DayCount = fallback.DayCount
	}
	if d.PropertyTaxMode == "" {
		d.PropertyTaxMode = fallback.PropertyTaxMode
	}
	if d.IRRTolerance == 0 {
		d.IRRTolerance = fallback.IRRTolerance
	}
	if d.IRRMaxIterations == 0 {
		d.IRRMaxIterations = fallback.IRRMaxIterations
	}
	return d
}

// ApplyDefaults fills unset deal fields from the default set. It never overrides
// a value the input supplied. A loan's fixed rate is defaulted only when its rate
// type is omitted too, so an explicit fixed loan at 0% keeps its rate.
func (deal *Deal) ApplyDefaults(d Defaults) {
	if deal.Operating.PropertyTaxMode == "" {
		deal.Operating.PropertyTaxMode = d.PropertyTaxMode
	}
	for i := range deal.Tenants {
		if deal.Tenants[i].Commission.EarlyYears == 0 {
			deal.Tenants[i].Commission.EarlyYears = d.CommissionEarlyYears
		}
	}
	for i := range deal.Loans {
		loan := &deal.Loans[i]
		if loan.RateType == "" {
			loan.RateType = RateFixed
			if loan.FixedRate.IsZero() {
				loan.FixedRate = d.InterestRate
			}
		}
		if loan.DayCount == "" {
			loan.DayCount = d.DayCount
		}
		if loan.TermMonths == 0 {
			loan.TermMonths = deal.Exit.HoldMonths
		}
		if loan.AmortizationMonths == 0 {
			loan.AmortizationMonths = loan.TermMonths - loan.InterestOnlyMonths
		}
	}
	if deal.Waterfall.CarryingClass == "" {
		deal.Waterfall.CarryingClass = deal.Waterfall.ClassB.Name
	}
}

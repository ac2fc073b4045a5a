package calculation

import (
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionYear maps a period to its projection year. Period 0 is year 0; periods 1-12 are year 1.
func ProjectionYear(period int) int {
	if period <= 0 {
		return 0
	}
	return (period-1)/12 + 1
}

// AnnualizeCashFlows rolls hold periods into projection years
func AnnualizeCashFlows(periods []domain.PeriodCashFlow) []domain.AnnualCashFlow {
	var out []domain.AnnualCashFlow
	for _, p := range periods {
		if p.Forward {
			continue
		}
		year := ProjectionYear(p.Period)
		if len(out) == 0 || out[len(out)-1].Year != year {
			out = append(out, domain.AnnualCashFlow{
				Year:                   year,
				EffectiveGrossRevenue:  decimal.Zero,
				TotalOperatingExpenses: decimal.Zero,
				NOI:                    decimal.Zero,
				LeasingCosts:           decimal.Zero,
				DebtService:            decimal.Zero,
				UnleveragedCashFlow:    decimal.Zero,
				LeveragedCashFlow:      decimal.Zero,
			})
		}
		a := &out[len(out)-1]
		a.EffectiveGrossRevenue = a.EffectiveGrossRevenue.Add(p.EffectiveGrossRevenue)
		a.TotalOperatingExpenses = a.TotalOperatingExpenses.Add(p.TotalOperatingExpenses)
		a.NOI = a.NOI.Add(p.NOI)
		a.LeasingCosts = a.LeasingCosts.Add(p.LeasingCosts())
		a.DebtService = a.DebtService.Add(p.DebtService)
		a.UnleveragedCashFlow = a.UnleveragedCashFlow.Add(p.UnleveragedCashFlow)
		a.LeveragedCashFlow = a.LeveragedCashFlow.Add(p.LeveragedCashFlow)
	}
	return out
}

// MinimumDSCR returns the lowest annual debt service coverage across years with debt service
func MinimumDSCR(annual []domain.AnnualCashFlow) decimal.Decimal {
	var lowest decimal.Decimal
	found := false
	for _, a := range annual {
		if !a.DebtService.IsPositive() {
			continue
		}
		dscr, err := DSCR(a.NOI, a.DebtService)
		if err != nil {
			continue
		}
		if !found || dscr.LessThan(lowest) {
			lowest = dscr
			found = true
		}
	}
	if !found {
		return decimal.Zero
	}
	return lowest
}

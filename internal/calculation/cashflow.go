package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/shopspring/decimal"
)

// CashFlowGenerator produces the monthly operating and unleveraged cash-flow series for a deal
type CashFlowGenerator struct {
	Deal          domain.Deal
	ForwardMonths int
	Tenants       *TenantCalculator
	Logger        Logger
}

// NewCashFlowGenerator creates a generator; forwardMonths periods beyond the hold feed the exit valuation
func NewCashFlowGenerator(deal domain.Deal, forwardMonths int) *CashFlowGenerator {
	return &CashFlowGenerator{
		Deal:          deal,
		ForwardMonths: forwardMonths,
		Tenants:       NewTenantCalculator(deal.Operating),
		Logger:        NopLogger{},
	}
}

// Generate builds periods 0..hold+forward. dates[p] must hold the date of period p.
func (g *CashFlowGenerator) Generate(dates []time.Time) ([]domain.PeriodCashFlow, domain.ExitValuation, error) {
	hold := g.Deal.Exit.HoldMonths
	last := hold + g.ForwardMonths
	if len(dates) <= last {
		return nil, domain.ExitValuation{}, fmt.Errorf("generate: need %d period dates, got %d", last+1, len(dates))
	}

	periods := make([]domain.PeriodCashFlow, 0, last+1)
	periods = append(periods, g.acquisitionPeriod(dates[0]))
	for p := 1; p <= last; p++ {
		periods = append(periods, g.operatingPeriod(p, dates[p], p > hold))
	}

	exit, err := g.ExitValuation(periods)
	if err != nil {
		return nil, domain.ExitValuation{}, err
	}

	for p := 1; p <= hold; p++ {
		row := &periods[p]
		row.UnleveragedCashFlow = row.NOI.Sub(row.LeasingCosts())
		if !g.Deal.Operating.ReservesInNOI {
			row.UnleveragedCashFlow = row.UnleveragedCashFlow.Sub(row.CapitalReserve)
		}
		if p == hold {
			row.ExitProceeds = exit.NetProceeds
			row.UnleveragedCashFlow = row.UnleveragedCashFlow.Add(exit.NetProceeds)
		}
	}

	g.Logger.Debugf("generated %d periods (%d forward), exit net %s", len(periods), g.ForwardMonths, exit.NetProceeds.StringFixed(2))
	return periods, exit, nil
}

// acquisitionPeriod carries only the purchase outflow and, optionally, a first reserve contribution
func (g *CashFlowGenerator) acquisitionPeriod(date time.Time) domain.PeriodCashFlow {
	row := zeroPeriod(0, date)
	prop := g.Deal.Property
	row.AcquisitionCosts = prop.PurchasePrice.Add(prop.ClosingCosts)
	row.UnleveragedCashFlow = row.AcquisitionCosts.Neg()

	if g.Deal.Operating.IncludeMonthZeroReserve {
		row.CapitalReserve = money.PerAreaMonthly(prop.Area, g.Deal.Operating.CapitalReservePerArea)
		row.UnleveragedCashFlow = row.UnleveragedCashFlow.Sub(row.CapitalReserve)
	}
	return row
}

func (g *CashFlowGenerator) operatingPeriod(p int, date time.Time, forward bool) domain.PeriodCashFlow {
	ops := g.Deal.Operating
	area := g.Deal.Property.Area
	row := zeroPeriod(p, date)
	row.Forward = forward

	row.Tenants = make([]domain.TenantPeriod, 0, len(g.Deal.Tenants))
	for _, t := range g.Deal.Tenants {
		tp := g.Tenants.Revenue(t, p)
		row.Tenants = append(row.Tenants, tp)
		row.GrossRent = row.GrossRent.Add(tp.Gross)
		row.FreeRent = row.FreeRent.Add(tp.FreeRent)
		if !forward {
			row.TenantImprovements = row.TenantImprovements.Add(tp.TenantImprovements)
			row.LeasingCommissions = row.LeasingCommissions.Add(tp.LeasingCommission)
		}
	}
	netRental := row.GrossRent.Add(row.FreeRent)

	for _, a := range ops.Ancillary {
		row.AncillaryIncome = row.AncillaryIncome.Add(money.Monthly(a.AnnualAmount).Mul(ExpenseEscalation(a.Growth, p)))
	}
	row.VacancyLoss = netRental.Mul(ops.VacancyRate).Neg()
	collected := netRental.Add(row.AncillaryIncome).Add(row.VacancyLoss)

	expenseFactor := ExpenseEscalation(ops.ExpenseGrowth, p)
	row.FixedOpex = money.PerAreaMonthly(area, ops.FixedOpexPerArea).Mul(expenseFactor)
	row.VariableOpex = money.PerAreaMonthly(area, ops.VariableOpexPerArea).Mul(expenseFactor)
	row.ManagementFee = collected.Mul(ops.ManagementFeeRate)
	row.PropertyTax = money.Monthly(ops.PropertyTax).Mul(PropertyTaxEscalation(ops.PropertyTaxGrowth, p, ops.PropertyTaxMode))
	row.CapitalReserve = money.PerAreaMonthly(area, ops.CapitalReservePerArea).Mul(expenseFactor)

	if ops.NNNReimbursement {
		row.Reimbursements = money.Sum(row.FixedOpex, row.PropertyTax, row.ManagementFee)
	}
	row.EffectiveGrossRevenue = collected.Add(row.Reimbursements)

	row.TotalOperatingExpenses = money.Sum(row.FixedOpex, row.VariableOpex, row.ManagementFee, row.PropertyTax)
	if ops.ReservesInNOI {
		row.TotalOperatingExpenses = row.TotalOperatingExpenses.Add(row.CapitalReserve)
	}
	row.NOI = row.EffectiveGrossRevenue.Sub(row.TotalOperatingExpenses)
	return row
}

// ExitValuation capitalises forward NOI from the periods that follow the hold
func (g *CashFlowGenerator) ExitValuation(periods []domain.PeriodCashFlow) (domain.ExitValuation, error) {
	hold := g.Deal.Exit.HoldMonths
	exit := domain.ExitValuation{
		Period:     hold,
		CapRate:    g.Deal.Exit.CapRate,
		ForwardNOI: decimal.Zero,
	}
	if len(periods) <= hold+g.ForwardMonths {
		return exit, fmt.Errorf("exit valuation: need periods through %d, have %d", hold+g.ForwardMonths, len(periods)-1)
	}

	for _, row := range periods[hold+1 : hold+g.ForwardMonths+1] {
		exit.ForwardNOI = exit.ForwardNOI.Add(row.NOI)
		if g.Deal.Operating.ReservesInNOI {
			exit.ForwardNOI = exit.ForwardNOI.Add(row.CapitalReserve)
		}
	}

	if !exit.CapRate.IsPositive() {
		return exit, &domain.ArithmeticError{Op: "exit valuation", Reason: fmt.Sprintf("cap rate must be positive, got %s", exit.CapRate)}
	}
	exit.GrossValue = exit.ForwardNOI.Div(exit.CapRate)
	exit.DispositionCosts = exit.GrossValue.Mul(g.Deal.Exit.DispositionCostRate)
	exit.NetProceeds = exit.GrossValue.Sub(exit.DispositionCosts)
	return exit, nil
}

// ApplyDebt layers loan schedules onto the hold periods and fills the leveraged cash flow
func ApplyDebt(periods []domain.PeriodCashFlow, schedules []domain.LoanSchedule) {
	for i := range periods {
		row := &periods[i]
		if row.Forward {
			continue
		}
		row.LeveragedCashFlow = row.UnleveragedCashFlow
	}

	for _, s := range schedules {
		for _, lp := range s.Periods {
			if lp.Period >= len(periods) || periods[lp.Period].Forward {
				continue
			}
			row := &periods[lp.Period]
			if lp.Period == 0 {
				row.LoanProceeds = row.LoanProceeds.Add(s.Proceeds)
				row.LoanFees = row.LoanFees.Add(s.Fees)
			}
			row.LoanProceeds = row.LoanProceeds.Add(lp.Draws)
			row.InterestExpense = row.InterestExpense.Add(lp.Interest)
			row.PrincipalPayment = row.PrincipalPayment.Add(lp.ScheduledPrincipal())
			row.LoanPayoff = row.LoanPayoff.Add(lp.Payoff)
			row.DebtService = row.DebtService.Add(lp.DebtService())
			row.EndingLoanBalance = row.EndingLoanBalance.Add(lp.EndingBalance)
		}
	}

	for i := range periods {
		row := &periods[i]
		if row.Forward {
			continue
		}
		row.LeveragedCashFlow = row.UnleveragedCashFlow.
			Add(row.LoanProceeds).
			Sub(row.LoanFees).
			Sub(row.DebtService).
			Sub(row.LoanPayoff)
	}
}

// CashFlowSeries extracts one line of the hold periods as a series
func CashFlowSeries(periods []domain.PeriodCashFlow, line func(domain.PeriodCashFlow) decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(periods))
	for _, p := range periods {
		if p.Forward {
			continue
		}
		out = append(out, line(p))
	}
	return out
}

func zeroPeriod(p int, date time.Time) domain.PeriodCashFlow {
	z := decimal.Zero
	return domain.PeriodCashFlow{
		Period: p, Date: date,
		GrossRent: z, FreeRent: z, VacancyLoss: z, AncillaryIncome: z, Reimbursements: z, EffectiveGrossRevenue: z,
		FixedOpex: z, VariableOpex: z, ManagementFee: z, PropertyTax: z, CapitalReserve: z, TotalOperatingExpenses: z,
		NOI: z, TenantImprovements: z, LeasingCommissions: z, AcquisitionCosts: z, ExitProceeds: z, UnleveragedCashFlow: z,
		LoanProceeds: z, LoanFees: z, InterestExpense: z, PrincipalPayment: z, LoanPayoff: z, DebtService: z,
		EndingLoanBalance: z, LeveragedCashFlow: z,
	}
}

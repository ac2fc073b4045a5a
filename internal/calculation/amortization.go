package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/rpgo/cre-proforma/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var (
	daysPerYear = decimal.NewFromInt(365)
	two         = decimal.NewFromInt(2)
)

// Payment returns the level monthly payment that amortizes principal over months at an annual rate
func Payment(principal, annualRate decimal.Decimal, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, &domain.ArithmeticError{Op: "payment", Reason: "amortization term must be positive"}
	}
	if annualRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months))), nil
	}
	r := annualRate.Div(twelve)
	factor := money.PowInt(one.Add(r), months)
	return principal.Mul(r).Mul(factor).Div(factor.Sub(one)), nil
}

// RemainingBalance returns the balance left after paymentsMade level payments
func RemainingBalance(principal, annualRate decimal.Decimal, months, paymentsMade int) (decimal.Decimal, error) {
	if paymentsMade >= months {
		return decimal.Zero, nil
	}
	pmt, err := Payment(principal, annualRate, months)
	if err != nil {
		return decimal.Zero, err
	}
	if annualRate.IsZero() {
		return principal.Sub(pmt.Mul(decimal.NewFromInt(int64(paymentsMade)))), nil
	}
	r := annualRate.Div(twelve)
	growth := money.PowInt(one.Add(r), paymentsMade)
	return principal.Mul(growth).Sub(pmt.Mul(growth.Sub(one)).Div(r)), nil
}

// DSCR is net operating income over debt service for the same window
func DSCR(noi, debtService decimal.Decimal) (decimal.Decimal, error) {
	return domain.SafeDiv("debt service coverage", noi, debtService)
}

// LoanConstant is annual debt service as a fraction of principal
func LoanConstant(annualDebtService, principal decimal.Decimal) (decimal.Decimal, error) {
	return domain.SafeDiv("loan constant", annualDebtService, principal)
}

// AmortizationEngine builds monthly schedules for loan tranches
type AmortizationEngine struct {
	Curve  *RateCurve
	Logger Logger
}

// NewAmortizationEngine creates an engine; curve may be nil when every tranche is fixed rate
func NewAmortizationEngine(curve *RateCurve) *AmortizationEngine {
	return &AmortizationEngine{Curve: curve, Logger: NopLogger{}}
}

// EffectiveRate returns the annual rate a tranche pays on date
func (ae *AmortizationEngine) EffectiveRate(loan domain.LoanTranche, date time.Time) (decimal.Decimal, error) {
	if loan.RateType != domain.RateFloating {
		return loan.FixedRate, nil
	}
	if ae.Curve == nil {
		return decimal.Zero, domain.NewConfigurationError("loans."+loan.Name, "floating tranche requires a rate curve")
	}
	index, err := ae.Curve.RateAt(date)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(index, loan.Floor).Add(loan.Spread), nil
}

// Schedule runs a tranche through periods 0..horizon. dates[p] must be the date of period p.
func (ae *AmortizationEngine) Schedule(loan domain.LoanTranche, dates []time.Time, horizon int) (domain.LoanSchedule, error) {
	if len(dates) <= horizon {
		return domain.LoanSchedule{}, fmt.Errorf("schedule %s: need %d period dates, got %d", loan.Name, horizon+1, len(dates))
	}

	draws := make(map[int]decimal.Decimal, len(loan.Draws))
	for _, d := range loan.Draws {
		draws[d.Period] = draws[d.Period].Add(d.Amount)
	}

	maturity := loan.TermMonths
	if maturity <= 0 || maturity > horizon {
		maturity = horizon
	}

	sched := domain.LoanSchedule{
		Tranche:  loan.Name,
		Proceeds: loan.Principal,
		Fees:     loan.Principal.Mul(loan.OriginationFeeRate).Add(loan.ClosingCosts),
		Periods:  make([]domain.LoanPeriod, 0, horizon+1),
	}
	sched.Periods = append(sched.Periods, domain.LoanPeriod{
		Period:        0,
		Date:          dates[0],
		Phase:         domain.PhaseFunding,
		EndingBalance: loan.Principal,
	})

	balance := loan.Principal
	for p := 1; p <= horizon; p++ {
		row := domain.LoanPeriod{Period: p, Date: dates[p], BeginningBalance: balance}
		if p > maturity {
			row.Phase = domain.PhaseRepaid
			sched.Periods = append(sched.Periods, row)
			continue
		}

		rate, err := ae.EffectiveRate(loan, dates[p])
		if err != nil {
			return domain.LoanSchedule{}, fmt.Errorf("schedule %s period %d: %w", loan.Name, p, err)
		}
		row.Rate = rate
		row.Draws = draws[p]

		// interest accrues on the average of the opening balance and the balance after draws
		average := balance.Add(balance.Add(row.Draws)).Div(two)
		row.Interest = average.Mul(rate).Mul(accrualFraction(loan.DayCount, dates[p-1], dates[p]))

		funded := balance.Add(row.Draws)
		if p <= loan.InterestOnlyMonths {
			row.Phase = domain.PhaseInterestOnly
		} else {
			row.Phase = domain.PhaseAmortizing
			remaining := loan.AmortizationMonths - (p - loan.InterestOnlyMonths - 1)
			if remaining <= 1 {
				// the level payment is priced monthly while interest accrues by day count
				row.Principal = funded
			} else {
				pmt, err := Payment(funded, rate, remaining)
				if err != nil {
					return domain.LoanSchedule{}, fmt.Errorf("schedule %s period %d: %w", loan.Name, p, err)
				}
				row.Principal = money.Clamp(pmt.Sub(row.Interest), decimal.Zero, funded)
			}
		}

		balance = funded.Sub(row.Principal)
		if p == maturity {
			row.Payoff = balance
			row.Principal = row.Principal.Add(balance)
			balance = decimal.Zero
		}
		row.EndingBalance = balance
		sched.Periods = append(sched.Periods, row)
	}

	ae.Logger.Debugf("loan %s: principal=%s fees=%s maturity=%d", loan.Name, loan.Principal.StringFixed(2), sched.Fees.StringFixed(2), maturity)
	return sched, nil
}

func accrualFraction(basis domain.DayCount, from, to time.Time) decimal.Decimal {
	if basis == domain.DayCountThirty360 {
		return decimal.NewFromInt(30).Div(decimal.NewFromInt(360))
	}
	return decimal.NewFromInt(int64(dateutil.DaysBetween(from, to))).Div(daysPerYear)
}

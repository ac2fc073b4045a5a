package calculation

import (
	"testing"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		expected  float64
	}{
		{"30 year at 6%", 1000000, 0.06, 360, 5995.505252},
		{"10 year at 5.25%", 500000, 0.0525, 120, 5364.585070},
		{"zero rate", 120000, 0, 120, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payment(d(tt.principal), d(tt.rate), tt.months)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got.InexactFloat64(), 0.001)
		})
	}

	_, err := Payment(d(1000), d(0.05), 0)
	assert.ErrorIs(t, err, domain.ErrArithmetic)
}

func TestRemainingBalance(t *testing.T) {
	full, err := RemainingBalance(d(1000000), d(0.06), 360, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1000000, full.InexactFloat64(), 1e-6)

	paid, err := RemainingBalance(d(1000000), d(0.06), 360, 360)
	require.NoError(t, err)
	assert.True(t, paid.IsZero())

	// after 12 payments of a 30-year 6% loan roughly 12,278 of principal is repaid
	year1, err := RemainingBalance(d(1000000), d(0.06), 360, 12)
	require.NoError(t, err)
	assert.InDelta(t, 987719.88, year1.InexactFloat64(), 0.5)
}

func TestDSCRAndLoanConstant(t *testing.T) {
	dscr, err := DSCR(d(1250000), d(1000000))
	require.NoError(t, err)
	assert.True(t, dscr.Equal(d(1.25)))

	_, err = DSCR(d(1), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrArithmetic)

	k, err := LoanConstant(d(71946.06), d(1000000))
	require.NoError(t, err)
	assert.InDelta(t, 0.0719, k.InexactFloat64(), 1e-4)
}

func loanDates(n int) []time.Time {
	return dateutil.MonthlyDates(day(2026, 3, 31), n+1)
}

func TestSchedule_InterestAccrualActual365(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	loan := domain.LoanTranche{
		Name: "senior", Principal: d(10000000), RateType: domain.RateFixed, FixedRate: d(0.05),
		InterestOnlyMonths: 12, TermMonths: 12, DayCount: domain.DayCountActual365,
	}
	sched, err := ae.Schedule(loan, loanDates(12), 12)
	require.NoError(t, err)
	require.Len(t, sched.Periods, 13)

	// Mar 31 -> Apr 30 is 30 days
	assert.InDelta(t, 41095.89, sched.Periods[1].Interest.InexactFloat64(), 0.01)
	// Apr 30 -> May 31 is 31 days
	assert.InDelta(t, 10000000*0.05*31/365.0, sched.Periods[2].Interest.InexactFloat64(), 0.01)
	assert.Equal(t, domain.PhaseInterestOnly, sched.Periods[1].Phase)
	assert.True(t, sched.Periods[1].Principal.IsZero())

	last := sched.Periods[12]
	assert.True(t, last.Payoff.Equal(d(10000000)))
	assert.True(t, last.EndingBalance.IsZero())
}

func TestSchedule_Thirty360(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	loan := domain.LoanTranche{
		Name: "senior", Principal: d(1200000), FixedRate: d(0.06),
		InterestOnlyMonths: 3, TermMonths: 3, DayCount: domain.DayCountThirty360,
	}
	sched, err := ae.Schedule(loan, loanDates(3), 3)
	require.NoError(t, err)
	for _, p := range sched.Periods[1:] {
		assert.InDelta(t, 6000, p.Interest.InexactFloat64(), 1e-6)
	}
}

func TestSchedule_AmortizesAfterInterestOnly(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	loan := domain.LoanTranche{
		Name: "senior", Principal: d(1000000), FixedRate: d(0.06),
		InterestOnlyMonths: 2, AmortizationMonths: 360, TermMonths: 24, DayCount: domain.DayCountThirty360,
		OriginationFeeRate: d(0.01), ClosingCosts: d(5000),
	}
	sched, err := ae.Schedule(loan, loanDates(24), 24)
	require.NoError(t, err)
	assert.True(t, sched.Fees.Equal(d(15000)))

	assert.Equal(t, domain.PhaseInterestOnly, sched.Periods[2].Phase)
	p3 := sched.Periods[3]
	assert.Equal(t, domain.PhaseAmortizing, p3.Phase)
	assert.InDelta(t, 5995.51, p3.DebtService().InexactFloat64(), 0.01)
	assert.True(t, p3.Principal.IsPositive())
	assert.True(t, p3.EndingBalance.LessThan(d(1000000)))

	// level payment carries through the amortizing window
	p10 := sched.Periods[10]
	assert.InDelta(t, 5995.51, p10.DebtService().InexactFloat64(), 0.01)

	last := sched.Periods[24]
	assert.True(t, last.Payoff.IsPositive())
	assert.True(t, last.EndingBalance.IsZero())
}

func TestSchedule_MaturityBeforeHorizon(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	loan := domain.LoanTranche{Name: "bridge", Principal: d(500000), FixedRate: d(0.08), InterestOnlyMonths: 6, TermMonths: 6}
	sched, err := ae.Schedule(loan, loanDates(12), 12)
	require.NoError(t, err)

	assert.True(t, sched.Periods[6].Payoff.Equal(d(500000)))
	for _, p := range sched.Periods[7:] {
		assert.Equal(t, domain.PhaseRepaid, p.Phase)
		assert.True(t, p.Interest.IsZero())
	}
}

func TestSchedule_DrawsAccrueOnAverageBalance(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	loan := domain.LoanTranche{
		Name: "construction", Principal: d(1000000), FixedRate: d(0.06),
		InterestOnlyMonths: 6, TermMonths: 6, DayCount: domain.DayCountThirty360,
		Draws: []domain.LoanDraw{{Period: 2, Amount: d(200000)}},
	}
	sched, err := ae.Schedule(loan, loanDates(6), 6)
	require.NoError(t, err)

	p2 := sched.Periods[2]
	assert.True(t, p2.Draws.Equal(d(200000)))
	assert.InDelta(t, 1100000*0.06/12, p2.Interest.InexactFloat64(), 1e-6)
	assert.True(t, p2.EndingBalance.Equal(d(1200000)))
	assert.True(t, sched.Periods[6].Payoff.Equal(d(1200000)))
}

func TestSchedule_FloatingRate(t *testing.T) {
	curve := testCurve(t)
	ae := NewAmortizationEngine(curve)
	loan := domain.LoanTranche{
		Name: "floater", Principal: d(1000000), RateType: domain.RateFloating,
		Spread: d(0.02), Floor: d(0.03), InterestOnlyMonths: 12, TermMonths: 12, DayCount: domain.DayCountThirty360,
	}

	sched, err := ae.Schedule(loan, loanDates(12), 12)
	require.NoError(t, err)
	// Apr 30: index 4.5% + 2%
	assert.InDelta(t, 0.065, sched.Periods[1].Rate.InexactFloat64(), 1e-12)
	// Jul 31: index 4.0% + 2%
	assert.InDelta(t, 0.060, sched.Periods[4].Rate.InexactFloat64(), 1e-12)
	// Oct 31: curve 1.0% floored at 1.5%, loan floor 3% + 2%
	assert.InDelta(t, 0.050, sched.Periods[7].Rate.InexactFloat64(), 1e-12)
}

func TestSchedule_FloatingRateLookupFailure(t *testing.T) {
	curve, err := NewRateCurve([]domain.RatePoint{{Date: day(2027, 1, 1), Rate: d(0.04)}}, decimal.Zero)
	require.NoError(t, err)
	ae := NewAmortizationEngine(curve)
	loan := domain.LoanTranche{Name: "floater", Principal: d(1000000), RateType: domain.RateFloating, InterestOnlyMonths: 12, TermMonths: 12}

	_, err = ae.Schedule(loan, loanDates(12), 12)
	assert.ErrorIs(t, err, domain.ErrLookup)

	_, err = NewAmortizationEngine(nil).EffectiveRate(loan, day(2027, 2, 1))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSchedule_BalanceRollForward(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	tests := []struct {
		name string
		loan domain.LoanTranche
	}{
		{"interest only then amortizing", domain.LoanTranche{
			Name: "senior", Principal: d(1000000), FixedRate: d(0.06),
			InterestOnlyMonths: 12, AmortizationMonths: 360, TermMonths: 24,
		}},
		{"fully amortizing inside the term", domain.LoanTranche{
			Name: "term", Principal: d(120000), FixedRate: d(0.06),
			AmortizationMonths: 12, TermMonths: 24,
		}},
		{"draws during interest only", domain.LoanTranche{
			Name: "construction", Principal: d(800000), FixedRate: d(0.07),
			InterestOnlyMonths: 6, AmortizationMonths: 300, TermMonths: 18, DayCount: domain.DayCountThirty360,
			Draws: []domain.LoanDraw{{Period: 3, Amount: d(150000)}, {Period: 5, Amount: d(50000)}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := ae.Schedule(tt.loan, loanDates(24), 24)
			require.NoError(t, err)
			require.Len(t, sched.Periods, 25)
			assert.True(t, sched.Periods[0].EndingBalance.Equal(tt.loan.Principal))

			for p := 1; p < len(sched.Periods); p++ {
				lp := sched.Periods[p]
				assert.True(t, lp.BeginningBalance.Equal(sched.Periods[p-1].EndingBalance), "period %d opens on the prior close", p)
				want := lp.BeginningBalance.Add(lp.Draws).Sub(lp.Principal)
				assert.True(t, lp.EndingBalance.Equal(want), "period %d: ending %s, want %s", p, lp.EndingBalance, want)
				assert.False(t, lp.EndingBalance.IsNegative(), "period %d", p)
				assert.True(t, lp.Payoff.LessThanOrEqual(lp.Principal), "period %d", p)
			}
			assert.True(t, sched.Periods[24].EndingBalance.IsZero())
		})
	}
}

func TestSchedule_FinalAmortizationMonthClearsBalance(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	// the level payment is priced at rate/12 while ACT/365 months run 28 to 31 days
	loan := domain.LoanTranche{
		Name: "term", Principal: d(120000), FixedRate: d(0.06),
		AmortizationMonths: 12, TermMonths: 24, DayCount: domain.DayCountActual365,
	}
	sched, err := ae.Schedule(loan, loanDates(24), 24)
	require.NoError(t, err)

	p12 := sched.Periods[12]
	assert.Equal(t, domain.PhaseAmortizing, p12.Phase)
	assert.True(t, p12.EndingBalance.IsZero(), "left %s after the last amortizing month", p12.EndingBalance)
	assert.True(t, p12.Payoff.IsZero())
	for _, lp := range sched.Periods[13:] {
		assert.True(t, lp.BeginningBalance.IsZero(), "period %d", lp.Period)
		assert.True(t, lp.Interest.IsZero(), "period %d", lp.Period)
		assert.True(t, lp.DebtService().IsZero(), "period %d", lp.Period)
	}

	total := decimal.Zero
	for _, lp := range sched.Periods[1:] {
		total = total.Add(lp.Principal)
	}
	assert.True(t, total.Equal(d(120000)), "principal repaid %s", total)
}

func TestSchedule_PayoffSplitFromScheduledPrincipal(t *testing.T) {
	ae := NewAmortizationEngine(nil)
	loan := domain.LoanTranche{
		Name: "senior", Principal: d(1000000), FixedRate: d(0.06),
		InterestOnlyMonths: 12, AmortizationMonths: 360, TermMonths: 24,
	}
	sched, err := ae.Schedule(loan, loanDates(24), 24)
	require.NoError(t, err)

	last := sched.Periods[24]
	prior := sched.Periods[23]
	assert.True(t, last.Payoff.IsPositive())
	assert.True(t, last.Principal.Equal(last.ScheduledPrincipal().Add(last.Payoff)))
	assert.True(t, last.ScheduledPrincipal().IsPositive())
	assert.True(t, last.ScheduledPrincipal().LessThan(d(2000)), "scheduled principal %s", last.ScheduledPrincipal())
	assert.True(t, last.DebtService().Equal(last.Interest.Add(last.ScheduledPrincipal())))
	assert.InDelta(t, prior.DebtService().InexactFloat64(), last.DebtService().InexactFloat64(), 60)
}

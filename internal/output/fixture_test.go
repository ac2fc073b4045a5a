package output

import (
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func fixturePeriods() []domain.PeriodCashFlow {
	start := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	acq := domain.PeriodCashFlow{
		Period:              0,
		Date:                start,
		AcquisitionCosts:    d(1020000),
		UnleveragedCashFlow: d(-1020000),
		LoanProceeds:        d(600000),
		LoanFees:            d(6000),
		EndingLoanBalance:   d(600000),
		LeveragedCashFlow:   d(-426000),
	}
	op := func(period int, exit float64) domain.PeriodCashFlow {
		unlev := 5812 + exit
		return domain.PeriodCashFlow{
			Period:                 period,
			Date:                   start.AddDate(0, period, 0),
			GrossRent:              d(10000),
			VacancyLoss:            d(-500),
			AncillaryIncome:        d(100),
			EffectiveGrossRevenue:  d(9600),
			FixedOpex:              d(1000),
			VariableOpex:           d(500),
			ManagementFee:          d(288),
			PropertyTax:            d(2000),
			TotalOperatingExpenses: d(3788),
			NOI:                    d(5812),
			ExitProceeds:           d(exit),
			UnleveragedCashFlow:    d(unlev),
			InterestExpense:        d(3000),
			DebtService:            d(3000),
			EndingLoanBalance:      d(600000),
			LeveragedCashFlow:      d(unlev - 3000),
		}
	}
	forward := op(3, 0)
	forward.Forward = true
	forward.UnleveragedCashFlow = decimal.Zero
	forward.LeveragedCashFlow = decimal.Zero
	return []domain.PeriodCashFlow{acq, op(1, 0), op(2, 1139152), forward}
}

func fixtureResult(name string, classAIRR float64) domain.ProjectionResult {
	return domain.ProjectionResult{
		RunID:        "run-" + name,
		DealName:     "Test Plaza",
		ScenarioName: name,
		HoldMonths:   2,
		Periods:      fixturePeriods(),
		LoanSchedules: []domain.LoanSchedule{{
			Tranche:  "Senior",
			Proceeds: d(600000),
			Fees:     d(6000),
			Periods: []domain.LoanPeriod{
				{Period: 0, Phase: domain.PhaseFunding, Rate: d(0.06), Draws: d(600000), EndingBalance: d(600000)},
				{Period: 1, Phase: domain.PhaseInterestOnly, Rate: d(0.06), BeginningBalance: d(600000), Interest: d(3000), EndingBalance: d(600000)},
			},
		}},
		Exit: domain.ExitValuation{
			Period:           2,
			ForwardNOI:       d(69744),
			CapRate:          d(0.06),
			GrossValue:       d(1162400),
			DispositionCosts: d(23248),
			NetProceeds:      d(1139152),
		},
		Waterfall: domain.WaterfallResult{
			Periods: []domain.PeriodDistribution{
				{Period: 0, CashFlow: d(-426000), ContributionA: d(383400), ContributionB: d(42600)},
				{Period: 2, CashFlow: d(2812), Tiers: []domain.TierDistribution{{
					Tier:   "8% pref",
					ClassA: domain.ClassDistribution{Preferred: d(2530.8)},
					ClassB: domain.ClassDistribution{Preferred: d(281.2)},
				}}},
			},
			ClassA: domain.ClassReturns{Name: "LP", Contributed: d(383400), Distributed: d(450000), Profit: d(66600), EquityMultiple: d(1.17), IRR: d(classAIRR)},
			ClassB: domain.ClassReturns{Name: "GP", Contributed: d(42600), Distributed: d(60000), Profit: d(17400), EquityMultiple: d(1.41), IRR: d(0.2)},
		},
		Metrics: domain.ReturnMetrics{
			UnleveragedIRR:      d(0.08),
			UnleveragedMultiple: d(1.13),
			LeveragedIRR:        d(0.11),
			LeveragedXIRR:       d(0.1102),
			LeveragedMultiple:   d(1.2),
			MinimumDSCR:         d(1.94),
			InitialLoanConstant: d(0.06),
			GoingInCapRate:      d(0.0697),
		},
		Annual: []domain.AnnualCashFlow{
			{Year: 0, UnleveragedCashFlow: d(-1020000), LeveragedCashFlow: d(-426000)},
			{Year: 1, EffectiveGrossRevenue: d(19200), TotalOperatingExpenses: d(7576), NOI: d(11624), DebtService: d(6000), UnleveragedCashFlow: d(1150776), LeveragedCashFlow: d(1144776)},
		},
	}
}

func buildTestComparison() *domain.ScenarioComparison {
	return &domain.ScenarioComparison{
		DealName: "Test Plaza",
		Results: []domain.ProjectionResult{
			fixtureResult("Base", 0.12),
			fixtureResult("Upside", 0.15),
		},
	}
}

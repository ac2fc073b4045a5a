package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/pkg/dateutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BaseScenarioName labels the run made when a configuration lists no scenarios
const BaseScenarioName = "Base Case"

// ProFormaEngine orchestrates a full projection: cash flows, debt, exit, waterfall and returns
type ProFormaEngine struct {
	Defaults domain.Defaults
	Returns  *ReturnCalculator
	Logger   Logger
}

// NewProFormaEngine creates an engine with the standard defaults
func NewProFormaEngine() *ProFormaEngine {
	return NewProFormaEngineWithDefaults(domain.StandardDefaults())
}

// NewProFormaEngineWithDefaults creates an engine; unset fields of d fall back to the standard defaults
func NewProFormaEngineWithDefaults(d domain.Defaults) *ProFormaEngine {
	d = d.Merge(domain.StandardDefaults())
	return &ProFormaEngine{
		Defaults: d,
		Returns:  NewReturnCalculator(d),
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *ProFormaEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// RunScenario applies a scenario's overrides to the configured deal and projects it
func (pe *ProFormaEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	deal := config.Deal
	name := BaseScenarioName
	if scenario != nil {
		deal = scenario.Apply(config.Deal.Clone())
		name = scenario.Name
	}
	return pe.Project(ctx, deal, name)
}

// RunScenarios projects every scenario concurrently and returns them in input order
func (pe *ProFormaEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	scenarios := config.Scenarios
	if len(scenarios) == 0 {
		scenarios = []domain.Scenario{{Name: BaseScenarioName}}
	}

	results := make([]domain.ProjectionResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	for i := range scenarios {
		i := i
		g.Go(func() error {
			res, err := pe.RunScenario(gctx, config, &scenarios[i])
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenarios[i].Name, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ScenarioComparison{
		DealName:    config.Deal.Name,
		Results:     results,
		Assumptions: config.Deal.Assumptions(),
	}, nil
}

// Project runs one deal end to end. The input deal is never modified.
func (pe *ProFormaEngine) Project(ctx context.Context, input domain.Deal, scenarioName string) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deal := input.Clone()
	deal.ApplyDefaults(pe.Defaults)
	if err := deal.Validate(); err != nil {
		return nil, err
	}

	hold := deal.Exit.HoldMonths
	dates := dateutil.MonthlyDates(deal.Property.AcquisitionDate, hold+pe.Defaults.ForwardMonths+1)
	pe.Logger.Infof("projecting %q scenario %q: %d months from %s", deal.Name, scenarioName, hold, dates[0].Format("2006-01-02"))

	gen := NewCashFlowGenerator(deal, pe.Defaults.ForwardMonths)
	gen.Logger = pe.Logger
	periods, exit, err := gen.Generate(dates)
	if err != nil {
		return nil, err
	}

	schedules, err := pe.loanSchedules(deal, dates, hold)
	if err != nil {
		return nil, err
	}
	ApplyDebt(periods, schedules)

	result := &domain.ProjectionResult{
		RunID:         uuid.NewString(),
		DealName:      deal.Name,
		ScenarioName:  scenarioName,
		HoldMonths:    hold,
		Periods:       periods,
		LoanSchedules: schedules,
		Exit:          exit,
	}
	result.Annual = AnnualizeCashFlows(periods)

	leveraged := CashFlowSeries(periods, func(p domain.PeriodCashFlow) decimal.Decimal { return p.LeveragedCashFlow })
	wf := NewWaterfallEngine(deal.Waterfall)
	wf.Logger = pe.Logger
	waterfall, err := wf.Distribute(leveraged)
	if err != nil {
		return nil, err
	}
	result.Waterfall = *waterfall

	if err := pe.computeMetrics(ctx, deal, result, dates[:hold+1]); err != nil {
		return nil, err
	}

	pe.Logger.Infof("scenario %q: unleveraged IRR %s, leveraged IRR %s", scenarioName,
		result.Metrics.UnleveragedIRR.StringFixed(4), result.Metrics.LeveragedIRR.StringFixed(4))
	return result, nil
}

func (pe *ProFormaEngine) loanSchedules(deal domain.Deal, dates []time.Time, hold int) ([]domain.LoanSchedule, error) {
	if len(deal.Loans) == 0 {
		return nil, nil
	}

	var curve *RateCurve
	if len(deal.RateCurve.Points) > 0 {
		c, err := NewRateCurve(deal.RateCurve.Points, deal.RateCurve.Floor)
		if err != nil {
			return nil, err
		}
		curve = c
	}

	amort := NewAmortizationEngine(curve)
	amort.Logger = pe.Logger
	schedules := make([]domain.LoanSchedule, 0, len(deal.Loans))
	for _, loan := range deal.Loans {
		s, err := amort.Schedule(loan, dates, hold)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

func (pe *ProFormaEngine) computeMetrics(ctx context.Context, deal domain.Deal, result *domain.ProjectionResult, dates []time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	periods := result.HoldPeriods()
	unleveraged := CashFlowSeries(periods, func(p domain.PeriodCashFlow) decimal.Decimal { return p.UnleveragedCashFlow })
	leveraged := CashFlowSeries(periods, func(p domain.PeriodCashFlow) decimal.Decimal { return p.LeveragedCashFlow })

	m := domain.ReturnMetrics{}
	var err error
	if m.UnleveragedIRR, err = pe.Returns.XIRR(unleveraged, dates); err != nil {
		return fmt.Errorf("unleveraged return: %w", err)
	}
	if m.UnleveragedMultiple, err = EquityMultiple(unleveraged); err != nil {
		return fmt.Errorf("unleveraged multiple: %w", err)
	}
	m.UnleveragedProfit = Profit(unleveraged)

	if m.LeveragedIRR, err = pe.Returns.MonthlyIRRAnnualized(leveraged); err != nil {
		return fmt.Errorf("leveraged return: %w", err)
	}
	if m.LeveragedXIRR, err = pe.Returns.XIRR(leveraged, dates); err != nil {
		return fmt.Errorf("leveraged return: %w", err)
	}
	if m.LeveragedMultiple, err = EquityMultiple(leveraged); err != nil {
		return fmt.Errorf("leveraged multiple: %w", err)
	}
	m.LeveragedProfit = Profit(leveraged)

	if payback, ok := PaybackPeriod(periods); ok {
		m.PaybackMonths = payback
	}
	m.MinimumDSCR = MinimumDSCR(result.Annual)
	m.InitialLoanConstant = decimal.Zero
	if len(deal.Loans) > 0 {
		principal, firstYear := decimal.Zero, decimal.Zero
		for _, l := range deal.Loans {
			principal = principal.Add(l.Principal)
		}
		for _, p := range periods {
			if ProjectionYear(p.Period) == 1 {
				firstYear = firstYear.Add(p.DebtService)
			}
		}
		if m.InitialLoanConstant, err = LoanConstant(firstYear, principal); err != nil {
			return err
		}
	}

	m.GoingInCapRate = decimal.Zero
	if len(result.Annual) > 1 && deal.Property.PurchasePrice.IsPositive() {
		m.GoingInCapRate = result.Annual[1].NOI.Div(deal.Property.PurchasePrice)
	}

	a, b := ClassCashFlows(&result.Waterfall)
	if result.Waterfall.ClassA.Contributed.IsPositive() {
		if result.Waterfall.ClassA.IRR, err = pe.Returns.MonthlyIRRAnnualized(a); err != nil {
			return fmt.Errorf("%s return: %w", result.Waterfall.ClassA.Name, err)
		}
	}
	if result.Waterfall.ClassB.Contributed.IsPositive() {
		if result.Waterfall.ClassB.IRR, err = pe.Returns.MonthlyIRRAnnualized(b); err != nil {
			return fmt.Errorf("%s return: %w", result.Waterfall.ClassB.Name, err)
		}
	}

	result.Metrics = m
	return nil
}

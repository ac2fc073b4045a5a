package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// Search bounds for the break-even exit cap rate
var (
	MinBreakEvenCapRate = decimal.NewFromFloat(0.01)
	MaxBreakEvenCapRate = decimal.NewFromFloat(0.25)
)

// BreakEvenResult is the exit cap rate at which a scenario's leveraged IRR falls to a target
type BreakEvenResult struct {
	ScenarioName     string          `json:"scenario_name"`
	TargetIRR        decimal.Decimal `json:"target_irr"`
	BaseCapRate      decimal.Decimal `json:"base_cap_rate"`
	BaseIRR          decimal.Decimal `json:"base_irr"`
	BreakEvenCapRate decimal.Decimal `json:"break_even_cap_rate"`
	IRRAtBreakEven   decimal.Decimal `json:"irr_at_break_even"`
	Cushion          decimal.Decimal `json:"cushion"` // break-even minus base cap rate
	Iterations       int             `json:"iterations"`
}

// BreakEvenAnalysis holds break-even results for every scenario of a configuration
type BreakEvenAnalysis struct {
	DealName  string            `json:"deal_name"`
	TargetIRR decimal.Decimal   `json:"target_irr"`
	Results   []BreakEvenResult `json:"results"`
}

// BreakEvenExitCapRate bisects the exit cap rate until the leveraged IRR meets targetIRR.
// A projection whose leveraged cash flows have no IRR counts as missing the target.
func (pe *ProFormaEngine) BreakEvenExitCapRate(ctx context.Context, deal domain.Deal, scenarioName string, targetIRR decimal.Decimal) (*BreakEvenResult, error) {
	irrAt := func(capRate decimal.Decimal) (decimal.Decimal, bool, error) {
		d := deal.Clone()
		d.Exit.CapRate = capRate
		res, err := pe.Project(ctx, d, scenarioName)
		if err != nil {
			if errors.Is(err, domain.ErrConvergence) {
				return decimal.Zero, false, nil
			}
			return decimal.Zero, false, err
		}
		return res.Metrics.LeveragedIRR, true, nil
	}

	base, err := pe.Project(ctx, deal, scenarioName)
	if err != nil {
		return nil, fmt.Errorf("break-even base projection: %w", err)
	}
	result := &BreakEvenResult{
		ScenarioName: scenarioName,
		TargetIRR:    targetIRR,
		BaseCapRate:  deal.Exit.CapRate,
		BaseIRR:      base.Metrics.LeveragedIRR,
	}

	lo, hi := MinBreakEvenCapRate, MaxBreakEvenCapRate
	irr, ok, err := irrAt(lo)
	if err != nil {
		return nil, err
	}
	if !ok || irr.LessThan(targetIRR) {
		return nil, &domain.ConvergenceError{
			Method: "break-even cap rate",
			Reason: fmt.Sprintf("target IRR %s is not reached even at a %s exit cap rate", targetIRR.StringFixed(4), lo.StringFixed(4)),
		}
	}
	result.IRRAtBreakEven = irr
	if irr, ok, err = irrAt(hi); err != nil {
		return nil, err
	} else if ok && irr.GreaterThanOrEqual(targetIRR) {
		result.BreakEvenCapRate = hi
		result.IRRAtBreakEven = irr
		result.Cushion = hi.Sub(result.BaseCapRate)
		pe.Logger.Warnf("scenario %q still meets %s at a %s exit cap rate", scenarioName, targetIRR.StringFixed(4), hi.StringFixed(4))
		return result, nil
	}

	two := decimal.NewFromInt(2)
	tolerance := decimal.NewFromFloat(0.000001)
	maxIterations := 60
	best := lo
	for i := 0; i < maxIterations && hi.Sub(lo).GreaterThan(tolerance); i++ {
		result.Iterations = i + 1
		mid := lo.Add(hi).Div(two)
		irr, ok, err := irrAt(mid)
		if err != nil {
			return nil, err
		}
		if ok && irr.GreaterThanOrEqual(targetIRR) {
			// a higher cap rate lowers exit value and the IRR with it
			lo, best = mid, mid
			result.IRRAtBreakEven = irr
		} else {
			hi = mid
		}
	}

	result.BreakEvenCapRate = best
	result.Cushion = best.Sub(result.BaseCapRate)
	pe.Logger.Debugf("scenario %q break-even exit cap %s after %d iterations", scenarioName, best.StringFixed(6), result.Iterations)
	return result, nil
}

// BreakEvenAnalysis runs BreakEvenExitCapRate for every scenario of the configuration
func (pe *ProFormaEngine) BreakEvenAnalysis(ctx context.Context, config *domain.Configuration, targetIRR decimal.Decimal) (*BreakEvenAnalysis, error) {
	scenarios := config.Scenarios
	if len(scenarios) == 0 {
		scenarios = []domain.Scenario{{Name: BaseScenarioName}}
	}

	results := make([]BreakEvenResult, 0, len(scenarios))
	for i := range scenarios {
		deal := scenarios[i].Apply(config.Deal.Clone())
		deal.ApplyDefaults(pe.Defaults)
		res, err := pe.BreakEvenExitCapRate(ctx, deal, scenarios[i].Name, targetIRR)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate break-even cap rate for scenario %s: %w", scenarios[i].Name, err)
		}
		results = append(results, *res)
	}

	return &BreakEvenAnalysis{
		DealName:  config.Deal.Name,
		TargetIRR: targetIRR,
		Results:   results,
	}, nil
}

// PaybackPeriod finds the month at which cumulative leveraged cash flow first turns
// non-negative, interpolating inside the crossing month. It returns false when the
// equity is never returned or was never negative.
func PaybackPeriod(periods []domain.PeriodCashFlow) (decimal.Decimal, bool) {
	cum := decimal.Zero
	wasNegative := false
	for _, p := range periods {
		if p.Forward {
			break
		}
		prev := cum
		cum = cum.Add(p.LeveragedCashFlow)
		if cum.IsNegative() {
			wasNegative = true
			continue
		}
		if !wasNegative || p.Period == 0 {
			continue
		}
		// linear interpolation inside the month: prev + t*flow = 0
		t := prev.Neg().Div(p.LeveragedCashFlow)
		if t.GreaterThan(decimal.NewFromInt(1)) {
			t = decimal.NewFromInt(1)
		}
		return decimal.NewFromInt(int64(p.Period - 1)).Add(t), true
	}
	return decimal.Zero, false
}

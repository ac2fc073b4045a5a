package output

import (
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName string
	ClassAIRR    decimal.Decimal
	LeveragedIRR decimal.Decimal
	IRRChange    decimal.Decimal // class A IRR against the first scenario
}

// AnalyzeScenarios picks the scenario with the highest class A IRR. The first
// scenario is the baseline; ties keep the earlier scenario.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Results) == 0 {
		return Recommendation{}
	}
	baseline := results.Results[0].Waterfall.ClassA.IRR
	best := results.Results[0]
	for _, r := range results.Results[1:] {
		if r.Waterfall.ClassA.IRR.GreaterThan(best.Waterfall.ClassA.IRR) {
			best = r
		}
	}
	return Recommendation{
		ScenarioName: best.ScenarioName,
		ClassAIRR:    best.Waterfall.ClassA.IRR,
		LeveragedIRR: best.Metrics.LeveragedIRR,
		IRRChange:    best.Waterfall.ClassA.IRR.Sub(baseline),
	}
}

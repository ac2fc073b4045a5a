package output

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rpgo/cre-proforma/internal/calculation"
)

// WriteBreakEven renders a break-even analysis as a console table, or as JSON when asJSON is set
func WriteBreakEven(w io.Writer, analysis *calculation.BreakEvenAnalysis, asJSON bool) error {
	if asJSON {
		return writeJSON(w, analysis)
	}

	fmt.Fprintf(w, "BREAK-EVEN EXIT CAP RATE: %s\n", analysis.DealName)
	fmt.Fprintf(w, "Target leveraged IRR: %s\n\n", FormatPercentage(analysis.TargetIRR))

	table := newTable(w, []string{"Scenario", "Base Cap", "Base IRR", "Break-Even Cap", "IRR at Break-Even", "Cushion (bps)"})
	for _, r := range analysis.Results {
		table.Append([]string{
			r.ScenarioName,
			FormatPercentage(r.BaseCapRate),
			FormatPercentage(r.BaseIRR),
			FormatPercentage(r.BreakEvenCapRate),
			FormatPercentage(r.IRRAtBreakEven),
			r.Cushion.Mul(hundred).Mul(hundred).StringFixed(0),
		})
	}
	table.Render()
	return nil
}

// WriteSimulation renders the percentile summary of a sensitivity simulation
func WriteSimulation(w io.Writer, result *calculation.SimulationResult, asJSON bool) error {
	if asJSON {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "SENSITIVITY SIMULATION: %s / %s\n", result.DealName, result.ScenarioName)
	fmt.Fprintf(w, "Runs: %d (seed %d), failures: %d\n", result.Runs, result.Seed, result.Failures)
	fmt.Fprintf(w, "Mean leveraged IRR %s, standard deviation %s\n", FormatPercentage(result.MeanIRR), FormatPercentage(result.StdDevIRR))
	fmt.Fprintf(w, "Probability of meeting %s: %s\n\n", FormatPercentage(result.TargetIRR), FormatPercentage(result.SuccessRate))

	table := newTable(w, []string{"Metric", "P10", "P25", "P50", "P75", "P90"})
	irr, mult := result.IRRPercentiles, result.MultiplePercentiles
	table.Append([]string{"Leveraged IRR", FormatPercentage(irr.P10), FormatPercentage(irr.P25), FormatPercentage(irr.P50), FormatPercentage(irr.P75), FormatPercentage(irr.P90)})
	table.Append([]string{"Equity Multiple", FormatMultiple(mult.P10), FormatMultiple(mult.P25), FormatMultiple(mult.P50), FormatMultiple(mult.P75), FormatMultiple(mult.P90)})
	table.Render()
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

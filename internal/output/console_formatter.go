package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/cre-proforma/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct {
	Thousands bool
}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PRO FORMA SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Deal: %s\n", results.DealName)
	fmt.Fprintln(&buf)
	for _, r := range results.Results {
		m := r.Metrics
		fmt.Fprintf(&buf, "%s: Hold=%dm UnleveredIRR=%s LeveredIRR=%s Multiple=%s\n",
			r.ScenarioName,
			r.HoldMonths,
			FormatPercentage(m.UnleveragedIRR),
			FormatPercentage(m.LeveragedIRR),
			FormatMultiple(m.LeveragedMultiple),
		)
		fmt.Fprintf(&buf, "  ExitNet=%s %s=%s %s=%s\n",
			FormatAmount(r.Exit.NetProceeds, c.Thousands),
			r.Waterfall.ClassA.Name, FormatPercentage(r.Waterfall.ClassA.IRR),
			r.Waterfall.ClassB.Name, FormatPercentage(r.Waterfall.ClassB.IRR),
		)
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" && len(results.Results) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s)\n", rec.ScenarioName, FormatPercentage(rec.IRRChange))
	}
	return buf.Bytes(), nil
}

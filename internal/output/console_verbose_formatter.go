package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/cre-proforma/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report: scenario comparison,
// annual cash flows, exit and equity returns for each scenario.
type ConsoleVerboseFormatter struct {
	Thousands bool
}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "PRO FORMA ANALYSIS: %s\n", results.DealName)
	fmt.Fprintln(&buf, "=================================================================================")
	if c.Thousands {
		fmt.Fprintln(&buf, "(amounts in $000s)")
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range ReportAssumptions(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "SCENARIO COMPARISON")
	c.writeComparison(&buf, results)
	fmt.Fprintln(&buf)

	for i, r := range results.Results {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, r.ScenarioName)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, "Run ID: %s\n", r.RunID)
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "ANNUAL CASH FLOW:")
		c.writeAnnual(&buf, r)
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "EXIT:")
		fmt.Fprintf(&buf, "  Sale at month %d, forward NOI %s at %s cap\n", r.Exit.Period, FormatAmount(r.Exit.ForwardNOI, c.Thousands), FormatPercentage(r.Exit.CapRate))
		fmt.Fprintf(&buf, "  Gross value:        %s\n", FormatAmount(r.Exit.GrossValue, c.Thousands))
		fmt.Fprintf(&buf, "  Disposition costs:  %s\n", FormatAmount(r.Exit.DispositionCosts.Neg(), c.Thousands))
		fmt.Fprintf(&buf, "  Net proceeds:       %s\n", FormatAmount(r.Exit.NetProceeds, c.Thousands))
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "RETURNS:")
		fmt.Fprintf(&buf, "  Unleveraged IRR %s, multiple %s, profit %s\n", FormatPercentage(r.Metrics.UnleveragedIRR), FormatMultiple(r.Metrics.UnleveragedMultiple), FormatAmount(r.Metrics.UnleveragedProfit, c.Thousands))
		fmt.Fprintf(&buf, "  Leveraged IRR %s (XIRR %s), multiple %s, profit %s\n", FormatPercentage(r.Metrics.LeveragedIRR), FormatPercentage(r.Metrics.LeveragedXIRR), FormatMultiple(r.Metrics.LeveragedMultiple), FormatAmount(r.Metrics.LeveragedProfit, c.Thousands))
		fmt.Fprintf(&buf, "  Going-in cap %s, loan constant %s, minimum DSCR %s\n", FormatPercentage(r.Metrics.GoingInCapRate), FormatPercentage(r.Metrics.InitialLoanConstant), r.Metrics.MinimumDSCR.StringFixed(2))
		if r.Metrics.PaybackMonths.IsPositive() {
			fmt.Fprintf(&buf, "  Equity payback in month %s\n", r.Metrics.PaybackMonths.StringFixed(1))
		}
		fmt.Fprintln(&buf)

		fmt.Fprintln(&buf, "EQUITY WATERFALL:")
		c.writeWaterfall(&buf, r.Waterfall)
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" && len(results.Results) > 1 {
		fmt.Fprintf(&buf, "RECOMMENDATION: %s (%s IRR %s, %s vs %s)\n", rec.ScenarioName,
			results.Results[0].Waterfall.ClassA.Name, FormatPercentage(rec.ClassAIRR),
			FormatPercentage(rec.IRRChange), results.Results[0].ScenarioName)
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "METHODOLOGY:")
	for _, n := range MethodologyNotes {
		fmt.Fprintf(&buf, "• %s\n", n)
	}
	return buf.Bytes(), nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func (c ConsoleVerboseFormatter) writeComparison(w io.Writer, results *domain.ScenarioComparison) {
	table := newTable(w, []string{"Scenario", "Hold", "Unlev IRR", "Lev IRR", "Lev Multiple", "Min DSCR", "Exit Net", "Class A IRR", "Class B IRR"})
	for _, r := range results.Results {
		table.Append([]string{
			r.ScenarioName,
			intToString(r.HoldMonths),
			FormatPercentage(r.Metrics.UnleveragedIRR),
			FormatPercentage(r.Metrics.LeveragedIRR),
			FormatMultiple(r.Metrics.LeveragedMultiple),
			r.Metrics.MinimumDSCR.StringFixed(2),
			FormatAmount(r.Exit.NetProceeds, c.Thousands),
			FormatPercentage(r.Waterfall.ClassA.IRR),
			FormatPercentage(r.Waterfall.ClassB.IRR),
		})
	}
	table.Render()
}

func (c ConsoleVerboseFormatter) writeAnnual(w io.Writer, r domain.ProjectionResult) {
	table := newTable(w, []string{"Year", "EGR", "OpEx", "NOI", "Leasing", "Debt Service", "Unlev CF", "Lev CF"})
	for _, a := range r.Annual {
		table.Append([]string{
			intToString(a.Year),
			FormatAmount(a.EffectiveGrossRevenue, c.Thousands),
			FormatAmount(a.TotalOperatingExpenses, c.Thousands),
			FormatAmount(a.NOI, c.Thousands),
			FormatAmount(a.LeasingCosts, c.Thousands),
			FormatAmount(a.DebtService, c.Thousands),
			FormatAmount(a.UnleveragedCashFlow, c.Thousands),
			FormatAmount(a.LeveragedCashFlow, c.Thousands),
		})
	}
	table.Render()
}

func (c ConsoleVerboseFormatter) writeWaterfall(w io.Writer, wf domain.WaterfallResult) {
	table := newTable(w, []string{"Class", "Contributed", "Distributed", "Profit", "Multiple", "IRR"})
	for _, cr := range []domain.ClassReturns{wf.ClassA, wf.ClassB} {
		table.Append([]string{
			cr.Name,
			FormatAmount(cr.Contributed, c.Thousands),
			FormatAmount(cr.Distributed, c.Thousands),
			FormatAmount(cr.Profit, c.Thousands),
			FormatMultiple(cr.EquityMultiple),
			FormatPercentage(cr.IRR),
		})
	}
	table.Render()
}

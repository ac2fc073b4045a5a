package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/cre-proforma/internal/domain"
)

// ScheduleFormatter renders each scenario's loan schedules as console tables
type ScheduleFormatter struct {
	Thousands bool
}

func (s ScheduleFormatter) Name() string { return "schedule" }

func (s ScheduleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "DEBT SCHEDULES: %s\n", results.DealName)
	for _, r := range results.Results {
		fmt.Fprintf(&buf, "\nSCENARIO: %s\n", r.ScenarioName)
		if len(r.LoanSchedules) == 0 {
			fmt.Fprintln(&buf, "  (unlevered)")
			continue
		}
		for _, ls := range r.LoanSchedules {
			fmt.Fprintf(&buf, "%s: proceeds %s, fees %s\n", ls.Tranche, FormatAmount(ls.Proceeds, s.Thousands), FormatAmount(ls.Fees, s.Thousands))
			table := newTable(&buf, []string{"Period", "Date", "Phase", "Rate", "Beginning", "Draws", "Interest", "Principal", "Payoff", "Ending"})
			for _, lp := range ls.Periods {
				table.Append([]string{
					intToString(lp.Period),
					lp.Date.Format("2006-01-02"),
					string(lp.Phase),
					FormatPercentage(lp.Rate),
					FormatAmount(lp.BeginningBalance, s.Thousands),
					FormatAmount(lp.Draws, s.Thousands),
					FormatAmount(lp.Interest, s.Thousands),
					FormatAmount(lp.ScheduledPrincipal(), s.Thousands),
					FormatAmount(lp.Payoff, s.Thousands),
					FormatAmount(lp.EndingBalance, s.Thousands),
				})
			}
			table.Render()
		}
	}
	return buf.Bytes(), nil
}

package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/cre-proforma/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario, in run order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "RunID", "HoldMonths", "UnleveragedIRR", "LeveragedIRR", "LeveragedXIRR", "UnleveragedMultiple", "LeveragedMultiple", "MinimumDSCR", "GoingInCapRate", "ExitGrossValue", "ExitNetProceeds", "ClassA", "ClassAIRR", "ClassAMultiple", "ClassB", "ClassBIRR", "ClassBMultiple"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		m := r.Metrics
		row := []string{
			r.ScenarioName,
			r.RunID,
			intToString(r.HoldMonths),
			m.UnleveragedIRR.StringFixed(6),
			m.LeveragedIRR.StringFixed(6),
			m.LeveragedXIRR.StringFixed(6),
			m.UnleveragedMultiple.StringFixed(4),
			m.LeveragedMultiple.StringFixed(4),
			m.MinimumDSCR.StringFixed(4),
			m.GoingInCapRate.StringFixed(6),
			r.Exit.GrossValue.StringFixed(2),
			r.Exit.NetProceeds.StringFixed(2),
			r.Waterfall.ClassA.Name,
			r.Waterfall.ClassA.IRR.StringFixed(6),
			r.Waterfall.ClassA.EquityMultiple.StringFixed(4),
			r.Waterfall.ClassB.Name,
			r.Waterfall.ClassB.IRR.StringFixed(6),
			r.Waterfall.ClassB.EquityMultiple.StringFixed(4),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

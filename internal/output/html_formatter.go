package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/goccy/go-json"
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report with an annual cash flow chart per scenario.
type HTMLFormatter struct {
	Thousands bool
}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

type chartSeries struct {
	Years     []int     `json:"years"`
	NOI       []float64 `json:"noi"`
	Leveraged []float64 `json:"leveraged"`
}

func newChartSeries(annual []domain.AnnualCashFlow) chartSeries {
	s := chartSeries{}
	for _, a := range annual {
		s.Years = append(s.Years, a.Year)
		s.NOI = append(s.NOI, a.NOI.InexactFloat64())
		s.Leveraged = append(s.Leveraged, a.LeveragedCashFlow.InexactFloat64())
	}
	return s
}

func (h HTMLFormatter) template() *template.Template {
	return template.Must(template.New("report").Funcs(template.FuncMap{
		"curr": func(d decimal.Decimal) string { return FormatAmount(d, h.Thousands) },
		"pct":  FormatPercentage,
		"mult": FormatMultiple,
		"add":  func(i, j int) int { return i + j },
		"chart": func(annual []domain.AnnualCashFlow) template.JS {
			b, _ := json.Marshal(newChartSeries(annual))
			return template.JS(b)
		},
	}).Parse(htmlTemplateSource))
}

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.ScenarioComparison
		Recommendation Recommendation
		Assumptions    []string
		Thousands      bool
	}{results, AnalyzeScenarios(results), ReportAssumptions(results), h.Thousands}
	if err := h.template().Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

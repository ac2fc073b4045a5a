package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVDetailedExporter writes every hold period of every scenario, one row per month.
type CSVDetailedExporter struct {
	Thousands bool
}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Period", "Date", "Year", "GrossRent", "FreeRent", "VacancyLoss", "AncillaryIncome", "Reimbursements", "EffectiveGrossRevenue",
		"FixedOpex", "VariableOpex", "ManagementFee", "PropertyTax", "CapitalReserve", "TotalOperatingExpenses", "NOI",
		"TenantImprovements", "LeasingCommissions", "AcquisitionCosts", "ExitProceeds", "UnleveragedCashFlow",
		"LoanProceeds", "LoanFees", "InterestExpense", "PrincipalPayment", "LoanPayoff", "DebtService", "EndingLoanBalance", "LeveragedCashFlow"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		for _, p := range r.HoldPeriods() {
			row := []string{r.ScenarioName, intToString(p.Period), p.Date.Format("2006-01-02"), intToString(yearOf(p.Period))}
			for _, v := range []decimal.Decimal{
				p.GrossRent, p.FreeRent, p.VacancyLoss, p.AncillaryIncome, p.Reimbursements, p.EffectiveGrossRevenue,
				p.FixedOpex, p.VariableOpex, p.ManagementFee, p.PropertyTax, p.CapitalReserve, p.TotalOperatingExpenses, p.NOI,
				p.TenantImprovements, p.LeasingCommissions, p.AcquisitionCosts, p.ExitProceeds, p.UnleveragedCashFlow,
				p.LoanProceeds, p.LoanFees, p.InterestExpense, p.PrincipalPayment, p.LoanPayoff, p.DebtService, p.EndingLoanBalance, p.LeveragedCashFlow,
			} {
				row = append(row, FormatPlain(v, c.Thousands))
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// yearOf matches the annual roll-up: period 0 is year 0, periods 1-12 year 1
func yearOf(period int) int {
	if period <= 0 {
		return 0
	}
	return (period-1)/12 + 1
}

// AnnualCSVExporter writes the annual roll-up of each scenario.
type AnnualCSVExporter struct {
	Thousands bool
}

func (c AnnualCSVExporter) Name() string { return "annual-csv" }

func (c AnnualCSVExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Year", "EffectiveGrossRevenue", "TotalOperatingExpenses", "NOI", "LeasingCosts", "DebtService", "UnleveragedCashFlow", "LeveragedCashFlow"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		for _, a := range r.Annual {
			row := []string{
				r.ScenarioName,
				intToString(a.Year),
				FormatPlain(a.EffectiveGrossRevenue, c.Thousands),
				FormatPlain(a.TotalOperatingExpenses, c.Thousands),
				FormatPlain(a.NOI, c.Thousands),
				FormatPlain(a.LeasingCosts, c.Thousands),
				FormatPlain(a.DebtService, c.Thousands),
				FormatPlain(a.UnleveragedCashFlow, c.Thousands),
				FormatPlain(a.LeveragedCashFlow, c.Thousands),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WaterfallCSVExporter writes each period's capital calls and tier payments.
type WaterfallCSVExporter struct {
	Thousands bool
}

func (c WaterfallCSVExporter) Name() string { return "waterfall-csv" }

func (c WaterfallCSVExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Period", "Tier",
		"ClassA", "ClassA_Contribution", "ClassA_Preferred", "ClassA_Capital", "ClassA_Profit", "ClassA_Promote",
		"ClassB", "ClassB_Contribution", "ClassB_Preferred", "ClassB_Capital", "ClassB_Profit", "ClassB_Promote"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results.Results {
		nameA, nameB := r.Waterfall.ClassA.Name, r.Waterfall.ClassB.Name
		for _, pd := range r.Waterfall.Periods {
			if pd.ContributionA.IsPositive() || pd.ContributionB.IsPositive() {
				zero := FormatPlain(decimal.Zero, c.Thousands)
				row := []string{r.ScenarioName, intToString(pd.Period), "capital call",
					nameA, FormatPlain(pd.ContributionA, c.Thousands), zero, zero, zero, zero,
					nameB, FormatPlain(pd.ContributionB, c.Thousands), zero, zero, zero, zero}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
			for _, td := range pd.Tiers {
				row := []string{r.ScenarioName, intToString(pd.Period), td.Tier}
				row = append(row, c.classColumns(nameA, td.ClassA)...)
				row = append(row, c.classColumns(nameB, td.ClassB)...)
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (c WaterfallCSVExporter) classColumns(name string, cd domain.ClassDistribution) []string {
	return []string{
		name,
		FormatPlain(decimal.Zero, c.Thousands),
		FormatPlain(cd.Preferred, c.Thousands),
		FormatPlain(cd.Capital, c.Thousands),
		FormatPlain(cd.Profit, c.Thousands),
		FormatPlain(cd.Promote, c.Thousands),
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDeal = `deal:
  name: "Test Building"
  property:
    acquisition_date: 2026-03-31
    purchase_price: 1000000
    closing_costs: 20000
    area: 1000
  tenants:
    - name: "Tenant A"
      area: 1000
      in_place_rent: 120
      market_rent: 125
      lease_end_period: 24
      apply_rollover_costs: true
      buildout_months: 2
      free_rent_months: 1
      new_lease_term_years: 5
      ti_per_area: 10
      commission:
        early_rate: 0.06
        late_rate: 0.03
  operating:
    rent_growth: 0.03
    expense_growth: 0.03
    vacancy_rate: 0.05
    fixed_opex_per_area: 12
    property_tax: 24000
  loans:
    - name: "Senior"
      principal: 600000
      fixed_rate: 0.05
      interest_only_months: 60
  exit:
    hold_months: 60
    cap_rate: 0.065
    disposition_cost_rate: 0.02
  waterfall:
    class_a: {name: "LP", share: 0.9}
    class_b: {name: "GP", share: 0.1}
    tiers:
      - name: "8% pref"
        pref_rate: 0.08
        class_a_split: 0.9
        class_b_split: 0.1
    final_split:
      class_a_split: 0.8
      class_b_split: 0.2
scenarios:
  - name: "Base"
  - name: "Downside"
    exit_cap_rate: 0.075
    rent_growth: "0.01"
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, "deal.yaml", minimalDeal))

	require.NoError(t, err)
	assert.Equal(t, "Test Building", config.Deal.Name)
	assert.Equal(t, 2026, config.Deal.Property.AcquisitionDate.Year())
	assert.True(t, config.Deal.Property.PurchasePrice.Equal(decimal.NewFromInt(1000000)))
	require.Len(t, config.Deal.Tenants, 1)
	assert.True(t, config.Deal.Tenants[0].Commission.EarlyRate.Equal(decimal.RequireFromString("0.06")))
	require.Len(t, config.Scenarios, 2)
	require.NotNil(t, config.Scenarios[1].ExitCapRate)
	assert.True(t, config.Scenarios[1].ExitCapRate.Equal(decimal.RequireFromString("0.075")))

	// validation works on a copy, the loaded deal keeps its unset fields
	assert.Equal(t, 0, config.Deal.Loans[0].TermMonths)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("nonexistent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	testConfig := `
deal:
	name: "tabs are not allowed"
	property:
		area: "not-a-number"
`
	parser := NewInputParser()
	config, err := parser.LoadFromFile(writeTemp(t, "bad.yaml", testConfig))

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile_JSON(t *testing.T) {
	parser := NewInputParser()
	jsonDoc := `{
  "deal": {
    "name": "JSON Deal",
    "property": {"acquisition_date": "2026-03-31T00:00:00Z", "purchase_price": "1000000", "area": "1000"},
    "tenants": [{"name": "A", "area": 1000, "in_place_rent": 120, "market_rent": 120, "lease_end_period": 200}],
    "exit": {"hold_months": 12, "cap_rate": "0.06"},
    "waterfall": {
      "class_a": {"name": "LP", "share": "0.9"},
      "class_b": {"name": "GP", "share": "0.1"},
      "tiers": [{"name": "pref", "pref_rate": "0.08", "class_a_split": "0.9", "class_b_split": "0.1"}],
      "final_split": {"class_a_split": "0.9", "class_b_split": "0.1"}
    }
  }
}`
	fromJSON, err := parser.LoadFromFile(writeTemp(t, "deal.json", jsonDoc))
	require.NoError(t, err)
	assert.Equal(t, "JSON Deal", fromJSON.Deal.Name)
	assert.Equal(t, 12, fromJSON.Deal.Exit.HoldMonths)
	assert.True(t, fromJSON.Deal.Waterfall.ClassA.Share.Equal(decimal.RequireFromString("0.9")))
}

func TestLoadFromFile_InvalidJSON(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(writeTemp(t, "bad.json", `{"deal": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestValidateConfiguration_Success(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()

	err := parser.ValidateConfiguration(config)
	assert.NoError(t, err)
}

func TestValidateConfiguration_Failures(t *testing.T) {
	negative := decimal.NewFromFloat(-0.01)

	tests := []struct {
		name     string
		mutate   func(*domain.Configuration)
		contains string
	}{
		{
			name:     "missing area",
			mutate:   func(c *domain.Configuration) { c.Deal.Property.Area = decimal.Zero },
			contains: "property.area",
		},
		{
			name:     "shares do not sum to one",
			mutate:   func(c *domain.Configuration) { c.Deal.Waterfall.ClassB.Share = decimal.NewFromFloat(0.2) },
			contains: "sum to 1",
		},
		{
			name:     "unknown carrying class",
			mutate:   func(c *domain.Configuration) { c.Deal.Waterfall.CarryingClass = "Sponsor" },
			contains: "carrying_class",
		},
		{
			name:     "interest only longer than term",
			mutate:   func(c *domain.Configuration) { c.Deal.Loans[0].InterestOnlyMonths = 132 },
			contains: "interest_only_months",
		},
		{
			name:     "free rent before lease end",
			mutate:   func(c *domain.Configuration) { c.Deal.Tenants[0].FreeRentStart = 10 },
			contains: "free_rent_start",
		},
		{
			name:     "unnamed scenario",
			mutate:   func(c *domain.Configuration) { c.Scenarios = append(c.Scenarios, domain.Scenario{}) },
			contains: "scenario name is required",
		},
		{
			name: "duplicate scenario",
			mutate: func(c *domain.Configuration) {
				c.Scenarios = append(c.Scenarios, domain.Scenario{Name: "Base Case"})
			},
			contains: "duplicate scenario name",
		},
		{
			name: "negative scenario cap rate",
			mutate: func(c *domain.Configuration) {
				c.Scenarios = []domain.Scenario{{Name: "bad", ExitCapRate: &negative}}
			},
			contains: "exit_cap_rate",
		},
		{
			name:     "negative forward window",
			mutate:   func(c *domain.Configuration) { c.Defaults.ForwardMonths = -1 },
			contains: "forward_months",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewInputParser()
			config := parser.CreateExampleConfiguration()
			tt.mutate(config)

			err := parser.ValidateConfiguration(config)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateConfiguration_ScenarioDerivedDeal(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()
	config.Deal.Loans[0].InterestOnlyMonths = 60
	config.Deal.Loans[0].TermMonths = 0
	config.Deal.Loans[0].AmortizationMonths = 300
	config.Scenarios = []domain.Scenario{{Name: "Long Hold", HoldMonths: 144}}
	require.NoError(t, parser.ValidateConfiguration(config))

	// the loan term follows the hold, so a short hold leaves the IO period longer than the term
	config.Scenarios = append(config.Scenarios, domain.Scenario{Name: "Quick Flip", HoldMonths: 36})
	err := parser.ValidateConfiguration(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "Quick Flip"`)
	assert.Contains(t, err.Error(), "interest_only_months")
}

func TestCreateExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()

	assert.NotNil(t, config)
	assert.Equal(t, "Harbor Point Office", config.Deal.Name)
	assert.Equal(t, 120, config.Deal.Exit.HoldMonths)
	assert.Len(t, config.Deal.Tenants, 3)
	assert.Len(t, config.Deal.Waterfall.Tiers, 3)
	assert.Len(t, config.Scenarios, 4)
	assert.True(t, config.Deal.Loans[0].Principal.Equal(decimal.NewFromInt(16937180)))
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	original := parser.CreateExampleConfiguration()

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, parser.SaveConfiguration(original, path))

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.True(t, loaded.Deal.Property.AcquisitionDate.Equal(original.Deal.Property.AcquisitionDate))
	assert.True(t, loaded.Deal.Property.PurchasePrice.Equal(original.Deal.Property.PurchasePrice))
	assert.True(t, loaded.Deal.Waterfall.FinalSplit.Promote.Equal(original.Deal.Waterfall.FinalSplit.Promote))
	require.Len(t, loaded.Scenarios, len(original.Scenarios))
	require.NotNil(t, loaded.Scenarios[1].ExitCapRate)
	assert.True(t, loaded.Scenarios[1].ExitCapRate.Equal(*original.Scenarios[1].ExitCapRate))
	assert.Equal(t, original.Defaults.ForwardMonths, loaded.Defaults.ForwardMonths)
}

func TestSaveConfiguration_BadPath(t *testing.T) {
	parser := NewInputParser()
	err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), filepath.Join(t.TempDir(), "missing", "x.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file")
}

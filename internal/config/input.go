package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of deal configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file. A rate curve file
// named in the deal is resolved relative to the configuration file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return ip.load(data, json.Unmarshal, "JSON", filepath.Dir(filename))
	}
	return ip.load(data, yaml.Unmarshal, "YAML", filepath.Dir(filename))
}

// LoadFromBytes parses and validates a YAML document
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	return ip.load(data, yaml.Unmarshal, "YAML", "")
}

// LoadFromJSON parses and validates a JSON document
func (ip *InputParser) LoadFromJSON(data []byte) (*domain.Configuration, error) {
	return ip.load(data, json.Unmarshal, "JSON", "")
}

func (ip *InputParser) load(data []byte, unmarshal func([]byte, any) error, kind, baseDir string) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", kind, err)
	}

	if err := resolveRateCurve(&config.Deal, baseDir); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration. The deal is checked
// with defaults applied, then once more for every scenario's derived deal.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	defaults := config.Defaults.Merge(domain.StandardDefaults())
	if err := ip.validateDefaults(defaults); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}

	deal := config.Deal.Clone()
	deal.ApplyDefaults(defaults)
	if err := deal.Validate(); err != nil {
		return fmt.Errorf("deal %q: %w", config.Deal.Name, err)
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d validation failed: %w", i,
				domain.NewConfigurationError("scenarios.name", "duplicate scenario name %q", scenario.Name))
		}
		seen[scenario.Name] = true

		if err := ip.validateScenario(&scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}

		derived := scenario.Apply(config.Deal.Clone())
		derived.ApplyDefaults(defaults)
		if err := derived.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
	}

	return nil
}

func (ip *InputParser) validateDefaults(d domain.Defaults) error {
	if d.InterestRate.IsNegative() {
		return domain.NewConfigurationError("defaults.interest_rate", "cannot be negative, got %s", d.InterestRate)
	}
	if d.ForwardMonths < 1 {
		return domain.NewConfigurationError("defaults.forward_months", "must be at least 1, got %d", d.ForwardMonths)
	}
	if d.IRRTolerance <= 0 || d.IRRMaxIterations < 1 {
		return domain.NewConfigurationError("defaults", "IRR tolerance and iteration cap must be positive")
	}
	return nil
}

// validateScenario validates a single scenario's overrides
func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	var errs []error
	if scenario.Name == "" {
		errs = append(errs, domain.NewConfigurationError("scenarios.name", "scenario name is required"))
	}
	if scenario.HoldMonths < 0 {
		errs = append(errs, domain.NewConfigurationError("scenarios.hold_months", "cannot be negative, got %d", scenario.HoldMonths))
	}
	if scenario.ExitCapRate != nil && scenario.ExitCapRate.IsNegative() {
		errs = append(errs, domain.NewConfigurationError("scenarios.exit_cap_rate", "cannot be negative, got %s", scenario.ExitCapRate))
	}
	if scenario.InterestRate != nil && scenario.InterestRate.IsNegative() {
		errs = append(errs, domain.NewConfigurationError("scenarios.interest_rate", "cannot be negative, got %s", scenario.InterestRate))
	}
	return errors.Join(errs...)
}

// SaveConfiguration writes a configuration as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration: a single-building
// office acquisition with one senior loan and a three-tier LP/GP waterfall
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	acquisition := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	pct := decimal.NewFromFloat

	commission := domain.CommissionSchedule{EarlyRate: pct(0.06), LateRate: pct(0.03), EarlyYears: 5}
	downside := pct(0.0675)
	higherRate := pct(0.0625)
	flatRent := decimal.Zero

	return &domain.Configuration{
		Deal: domain.Deal{
			Name: "Harbor Point Office",
			Property: domain.Property{
				Name:            "Harbor Point",
				AcquisitionDate: acquisition,
				PurchasePrice:   decimal.NewFromInt(41500000),
				ClosingCosts:    decimal.NewFromInt(500000),
				Area:            decimal.NewFromInt(9932),
			},
			Tenants: []domain.Tenant{
				{
					Name:               "Anchor Bank",
					Area:               decimal.NewFromInt(5200),
					InPlaceRent:        decimal.NewFromInt(310),
					MarketRent:         decimal.NewFromInt(325),
					LeaseEndPeriod:     38,
					ApplyRolloverCosts: true,
					BuildoutMonths:     3,
					FreeRentMonths:     6,
					NewLeaseTermYears:  10,
					TIPerArea:          decimal.NewFromInt(75),
					Commission:         commission,
				},
				{
					Name:               "Coffee Roasters",
					Area:               decimal.NewFromInt(2100),
					InPlaceRent:        decimal.NewFromInt(285),
					MarketRent:         decimal.NewFromInt(300),
					LeaseEndPeriod:     70,
					ApplyRolloverCosts: true,
					BuildoutMonths:     2,
					FreeRentMonths:     3,
					NewLeaseTermYears:  7,
					TIPerArea:          decimal.NewFromInt(40),
					Commission:         commission,
				},
				{
					Name:           "Fitness Studio",
					Area:           decimal.NewFromInt(2632),
					InPlaceRent:    decimal.NewFromInt(260),
					MarketRent:     decimal.NewFromInt(275),
					LeaseEndPeriod: 150,
				},
			},
			Operating: domain.OperatingAssumptions{
				RentGrowth:            pct(0.03),
				ExpenseGrowth:         pct(0.03),
				VacancyRate:           pct(0.03),
				FixedOpexPerArea:      decimal.NewFromInt(18),
				VariableOpexPerArea:   decimal.NewFromInt(6),
				ManagementFeeRate:     pct(0.03),
				PropertyTax:           decimal.NewFromInt(415000),
				PropertyTaxGrowth:     pct(0.02),
				PropertyTaxMode:       domain.EscalationStepped,
				CapitalReservePerArea: pct(0.5),
				NNNReimbursement:      true,
				Ancillary: []domain.AncillaryIncome{
					{Name: "Parking", AnnualAmount: decimal.NewFromInt(36000), Growth: pct(0.02)},
				},
			},
			Loans: []domain.LoanTranche{
				{
					Name:               "Senior",
					Principal:          decimal.NewFromInt(16937180),
					RateType:           domain.RateFixed,
					FixedRate:          pct(0.0525),
					InterestOnlyMonths: 120,
					TermMonths:         120,
					OriginationFeeRate: pct(0.01),
					DayCount:           domain.DayCountActual365,
				},
			},
			Exit: domain.ExitAssumptions{
				HoldMonths:          120,
				CapRate:             pct(0.06),
				DispositionCostRate: pct(0.02),
			},
			Waterfall: domain.WaterfallConfig{
				ClassA:        domain.CapitalClass{Name: "LP", Share: pct(0.9)},
				ClassB:        domain.CapitalClass{Name: "GP", Share: pct(0.1)},
				CarryingClass: "GP",
				Tiers: []domain.WaterfallTier{
					{Name: "Return of capital + 5% pref", PrefRate: pct(0.05), ClassASplit: pct(0.9), ClassBSplit: pct(0.1)},
					{Name: "5% to 8% hurdle", PrefRate: pct(0.08), ClassASplit: pct(0.9), ClassBSplit: pct(0.1), Promote: pct(0.1)},
					{Name: "8% to 12% hurdle", PrefRate: pct(0.12), ClassASplit: pct(0.9), ClassBSplit: pct(0.1), Promote: pct(0.2)},
				},
				FinalSplit: domain.FinalSplit{ClassASplit: pct(0.9), ClassBSplit: pct(0.1), Promote: pct(0.3)},
			},
		},
		Defaults: domain.StandardDefaults(),
		Scenarios: []domain.Scenario{
			{Name: "Base Case"},
			{Name: "Downside Exit", ExitCapRate: &downside, RentGrowth: &flatRent},
			{Name: "Higher Rates", InterestRate: &higherRate},
			{Name: "Seven Year Hold", HoldMonths: 84},
		},
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Configuration is the top-level input document: one deal plus the scenarios to run against it
type Configuration struct {
	Deal      Deal       `yaml:"deal" json:"deal"`
	Defaults  Defaults   `yaml:"defaults" json:"defaults"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// Deal holds every assumption needed to project a single property
type Deal struct {
	Name      string               `yaml:"name" json:"name"`
	Property  Property             `yaml:"property" json:"property"`
	Tenants   []Tenant             `yaml:"tenants" json:"tenants"`
	Operating OperatingAssumptions `yaml:"operating" json:"operating"`
	Loans     []LoanTranche        `yaml:"loans,omitempty" json:"loans,omitempty"`
	RateCurve RateCurveConfig      `yaml:"rate_curve,omitempty" json:"rate_curve,omitempty"`
	Exit      ExitAssumptions      `yaml:"exit" json:"exit"`
	Waterfall WaterfallConfig      `yaml:"waterfall" json:"waterfall"`
}

// Property describes the asset and its acquisition
type Property struct {
	Name            string          `yaml:"name" json:"name"`
	AcquisitionDate time.Time       `yaml:"acquisition_date" json:"acquisition_date"`
	PurchasePrice   decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	ClosingCosts    decimal.Decimal `yaml:"closing_costs" json:"closing_costs"`
	Area            decimal.Decimal `yaml:"area" json:"area"` // rentable square feet
}

// CommissionSchedule prices leasing commissions on a new lease
type CommissionSchedule struct {
	EarlyRate  decimal.Decimal `yaml:"early_rate" json:"early_rate"`   // e.g. 0.06 for lease years 1..EarlyYears
	LateRate   decimal.Decimal `yaml:"late_rate" json:"late_rate"`     // e.g. 0.03 afterwards
	EarlyYears int             `yaml:"early_years" json:"early_years"` // Default: 5
}

// Tenant is one lease and the assumptions that apply when it rolls.
// LeaseEndPeriod may fall past the hold horizon; such a lease never rolls inside the projection.
type Tenant struct {
	Name               string             `yaml:"name" json:"name"`
	Area               decimal.Decimal    `yaml:"area" json:"area"`
	InPlaceRent        decimal.Decimal    `yaml:"in_place_rent" json:"in_place_rent"` // annual, per area unit
	MarketRent         decimal.Decimal    `yaml:"market_rent" json:"market_rent"`     // annual, per area unit
	LeaseEndPeriod     int                `yaml:"lease_end_period" json:"lease_end_period"`
	ApplyRolloverCosts bool               `yaml:"apply_rollover_costs" json:"apply_rollover_costs"`
	BuildoutMonths     int                `yaml:"buildout_months" json:"buildout_months"`
	FreeRentMonths     int                `yaml:"free_rent_months" json:"free_rent_months"`
	FreeRentStart      int                `yaml:"free_rent_start,omitempty" json:"free_rent_start,omitempty"`
	FreeRentEnd        int                `yaml:"free_rent_end,omitempty" json:"free_rent_end,omitempty"`
	NewLeaseTermYears  int                `yaml:"new_lease_term_years" json:"new_lease_term_years"`
	TIPerArea          decimal.Decimal    `yaml:"ti_per_area" json:"ti_per_area"`
	Commission         CommissionSchedule `yaml:"commission" json:"commission"`
}

// EscalationMode selects continuous or anniversary-stepped growth
type EscalationMode string

const (
	EscalationContinuous EscalationMode = "continuous"
	EscalationStepped    EscalationMode = "stepped"
)

// AncillaryIncome is a non-rent revenue line such as parking or signage
type AncillaryIncome struct {
	Name         string          `yaml:"name" json:"name"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	Growth       decimal.Decimal `yaml:"growth" json:"growth"`
}

// OperatingAssumptions drive revenue adjustments and operating expenses
type OperatingAssumptions struct {
	RentGrowth              decimal.Decimal   `yaml:"rent_growth" json:"rent_growth"`
	ExpenseGrowth           decimal.Decimal   `yaml:"expense_growth" json:"expense_growth"`
	VacancyRate             decimal.Decimal   `yaml:"vacancy_rate" json:"vacancy_rate"`
	FixedOpexPerArea        decimal.Decimal   `yaml:"fixed_opex_per_area" json:"fixed_opex_per_area"`       // annual
	VariableOpexPerArea     decimal.Decimal   `yaml:"variable_opex_per_area" json:"variable_opex_per_area"` // annual
	ManagementFeeRate       decimal.Decimal   `yaml:"management_fee_rate" json:"management_fee_rate"`
	PropertyTax             decimal.Decimal   `yaml:"property_tax" json:"property_tax"` // annual, year one
	PropertyTaxGrowth       decimal.Decimal   `yaml:"property_tax_growth" json:"property_tax_growth"`
	PropertyTaxMode         EscalationMode    `yaml:"property_tax_mode" json:"property_tax_mode"`
	CapitalReservePerArea   decimal.Decimal   `yaml:"capital_reserve_per_area" json:"capital_reserve_per_area"` // annual
	ReservesInNOI           bool              `yaml:"reserves_in_noi" json:"reserves_in_noi"`
	IncludeMonthZeroReserve bool              `yaml:"include_month_zero_reserve" json:"include_month_zero_reserve"`
	NNNReimbursement        bool              `yaml:"nnn_reimbursement" json:"nnn_reimbursement"`
	Ancillary               []AncillaryIncome `yaml:"ancillary,omitempty" json:"ancillary,omitempty"`
}

// RateType distinguishes fixed from curve-driven loans
type RateType string

const (
	RateFixed    RateType = "fixed"
	RateFloating RateType = "floating"
)

// DayCount selects the interest accrual convention
type DayCount string

const (
	DayCountActual365 DayCount = "actual/365"
	DayCountThirty360 DayCount = "30/360"
)

// LoanDraw is additional principal funded after closing
type LoanDraw struct {
	Period int             `yaml:"period" json:"period"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// LoanTranche is one senior or mezzanine loan
type LoanTranche struct {
	Name               string          `yaml:"name" json:"name"`
	Principal          decimal.Decimal `yaml:"principal" json:"principal"`
	RateType           RateType        `yaml:"rate_type" json:"rate_type"`
	FixedRate          decimal.Decimal `yaml:"fixed_rate" json:"fixed_rate"`
	Spread             decimal.Decimal `yaml:"spread" json:"spread"`
	Floor              decimal.Decimal `yaml:"floor" json:"floor"`
	InterestOnlyMonths int             `yaml:"interest_only_months" json:"interest_only_months"`
	AmortizationMonths int             `yaml:"amortization_months" json:"amortization_months"`
	TermMonths         int             `yaml:"term_months" json:"term_months"`
	OriginationFeeRate decimal.Decimal `yaml:"origination_fee_rate" json:"origination_fee_rate"`
	ClosingCosts       decimal.Decimal `yaml:"closing_costs" json:"closing_costs"`
	DayCount           DayCount        `yaml:"day_count" json:"day_count"`
	Draws              []LoanDraw      `yaml:"draws,omitempty" json:"draws,omitempty"`
}

// RatePoint is one dated observation on a forward rate curve
type RatePoint struct {
	Date time.Time       `yaml:"date" json:"date"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// RateCurveConfig is the forward curve used by floating-rate tranches
type RateCurveConfig struct {
	Floor  decimal.Decimal `yaml:"floor" json:"floor"`
	Points []RatePoint     `yaml:"points" json:"points"`
	File   string          `yaml:"file,omitempty" json:"file,omitempty"` // CSV of date,rate rows merged into Points on load
}

// ExitAssumptions price the sale at the end of the hold
type ExitAssumptions struct {
	HoldMonths          int             `yaml:"hold_months" json:"hold_months"`
	CapRate             decimal.Decimal `yaml:"cap_rate" json:"cap_rate"`
	DispositionCostRate decimal.Decimal `yaml:"disposition_cost_rate" json:"disposition_cost_rate"`
}

// CapitalClass is one equity class and its share of contributions
type CapitalClass struct {
	Name  string          `yaml:"name" json:"name"`
	Share decimal.Decimal `yaml:"share" json:"share"`
}

// AccrualMethod chooses how unpaid preferred return grows
type AccrualMethod string

const (
	AccrualSimple      AccrualMethod = "simple"
	AccrualCompounding AccrualMethod = "compounding"
)

// WaterfallTier is one preferred-return hurdle
type WaterfallTier struct {
	Name        string          `yaml:"name" json:"name"`
	PrefRate    decimal.Decimal `yaml:"pref_rate" json:"pref_rate"`
	ClassASplit decimal.Decimal `yaml:"class_a_split" json:"class_a_split"`
	ClassBSplit decimal.Decimal `yaml:"class_b_split" json:"class_b_split"`
	Promote     decimal.Decimal `yaml:"promote" json:"promote"`
	Accrual     AccrualMethod   `yaml:"accrual,omitempty" json:"accrual,omitempty"` // empty inherits the deal setting
}

// FinalSplit divides cash left after every hurdle is satisfied
type FinalSplit struct {
	ClassASplit decimal.Decimal `yaml:"class_a_split" json:"class_a_split"`
	ClassBSplit decimal.Decimal `yaml:"class_b_split" json:"class_b_split"`
	Promote     decimal.Decimal `yaml:"promote" json:"promote"`
}

// WaterfallConfig describes the equity distribution structure
type WaterfallConfig struct {
	ClassA        CapitalClass    `yaml:"class_a" json:"class_a"`
	ClassB        CapitalClass    `yaml:"class_b" json:"class_b"`
	CarryingClass string          `yaml:"carrying_class" json:"carrying_class"` // receives promote; Default: class B
	Compounding   bool            `yaml:"compounding" json:"compounding"`
	Tiers         []WaterfallTier `yaml:"tiers" json:"tiers"`
	FinalSplit    FinalSplit      `yaml:"final_split" json:"final_split"`
}

// Scenario overrides a subset of deal assumptions for one run
type Scenario struct {
	Name         string           `yaml:"name" json:"name"`
	HoldMonths   int              `yaml:"hold_months,omitempty" json:"hold_months,omitempty"`
	ExitCapRate  *decimal.Decimal `yaml:"exit_cap_rate,omitempty" json:"exit_cap_rate,omitempty"`
	RentGrowth   *decimal.Decimal `yaml:"rent_growth,omitempty" json:"rent_growth,omitempty"`
	InterestRate *decimal.Decimal `yaml:"interest_rate,omitempty" json:"interest_rate,omitempty"`
	VacancyRate  *decimal.Decimal `yaml:"vacancy_rate,omitempty" json:"vacancy_rate,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Scenario
func (s *Scenario) UnmarshalYAML(value *yaml.Node) error {
	// Optional decimals arrive as strings so an omitted field stays nil
	type Alias struct {
		Name         string  `yaml:"name"`
		HoldMonths   int     `yaml:"hold_months,omitempty"`
		ExitCapRate  *string `yaml:"exit_cap_rate,omitempty"`
		RentGrowth   *string `yaml:"rent_growth,omitempty"`
		InterestRate *string `yaml:"interest_rate,omitempty"`
		VacancyRate  *string `yaml:"vacancy_rate,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	s.Name = aux.Name
	s.HoldMonths = aux.HoldMonths

	fields := []struct {
		raw *string
		dst **decimal.Decimal
	}{
		{aux.ExitCapRate, &s.ExitCapRate},
		{aux.RentGrowth, &s.RentGrowth},
		{aux.InterestRate, &s.InterestRate},
		{aux.VacancyRate, &s.VacancyRate},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		val, err := decimal.NewFromString(*f.raw)
		if err != nil {
			return err
		}
		*f.dst = &val
	}

	return nil
}

// Apply returns a copy of the deal with the scenario overrides in place
func (s Scenario) Apply(deal Deal) Deal {
	out := deal
	if s.HoldMonths > 0 {
		out.Exit.HoldMonths = s.HoldMonths
	}
	if s.ExitCapRate != nil {
		out.Exit.CapRate = *s.ExitCapRate
	}
	if s.RentGrowth != nil {
		out.Operating.RentGrowth = *s.RentGrowth
	}
	if s.VacancyRate != nil {
		out.Operating.VacancyRate = *s.VacancyRate
	}
	if s.InterestRate != nil && len(deal.Loans) > 0 {
		loans := make([]LoanTranche, len(deal.Loans))
		copy(loans, deal.Loans)
		for i := range loans {
			if loans[i].RateType != RateFloating {
				loans[i].FixedRate = *s.InterestRate
			}
		}
		out.Loans = loans
	}
	return out
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseState is the phase a tenant occupies in a given period
type LeaseState string

const (
	StateInPlace    LeaseState = "in_place"
	StateBuildout   LeaseState = "buildout"
	StateFreeRent   LeaseState = "free_rent"
	StateMarketRent LeaseState = "market_rent"
	StateNone       LeaseState = "none"
)

// TenantPeriod is a tenant's revenue and leasing cost in one period
type TenantPeriod struct {
	Name               string          `json:"name"`
	State              LeaseState      `json:"state"`
	Gross              decimal.Decimal `json:"gross"`
	FreeRent           decimal.Decimal `json:"free_rent"` // zero or negative
	TenantImprovements decimal.Decimal `json:"tenant_improvements"`
	LeasingCommission  decimal.Decimal `json:"leasing_commission"`
}

// PeriodCashFlow is one monthly column of the pro forma. Period 0 is the acquisition date.
type PeriodCashFlow struct {
	Period  int       `json:"period"`
	Date    time.Time `json:"date"`
	Forward bool      `json:"forward"` // beyond the hold; used only for exit valuation

	Tenants []TenantPeriod `json:"tenants,omitempty"`

	// Revenue
	GrossRent             decimal.Decimal `json:"gross_rent"`
	FreeRent              decimal.Decimal `json:"free_rent"`
	VacancyLoss           decimal.Decimal `json:"vacancy_loss"`
	AncillaryIncome       decimal.Decimal `json:"ancillary_income"`
	Reimbursements        decimal.Decimal `json:"reimbursements"`
	EffectiveGrossRevenue decimal.Decimal `json:"effective_gross_revenue"`

	// Operating expenses
	FixedOpex              decimal.Decimal `json:"fixed_opex"`
	VariableOpex           decimal.Decimal `json:"variable_opex"`
	ManagementFee          decimal.Decimal `json:"management_fee"`
	PropertyTax            decimal.Decimal `json:"property_tax"`
	CapitalReserve         decimal.Decimal `json:"capital_reserve"`
	TotalOperatingExpenses decimal.Decimal `json:"total_operating_expenses"`

	NOI decimal.Decimal `json:"noi"`

	// Below NOI
	TenantImprovements  decimal.Decimal `json:"tenant_improvements"`
	LeasingCommissions  decimal.Decimal `json:"leasing_commissions"`
	AcquisitionCosts    decimal.Decimal `json:"acquisition_costs"`
	ExitProceeds        decimal.Decimal `json:"exit_proceeds"`
	UnleveragedCashFlow decimal.Decimal `json:"unleveraged_cash_flow"`

	// Debt
	LoanProceeds      decimal.Decimal `json:"loan_proceeds"`
	LoanFees          decimal.Decimal `json:"loan_fees"`
	InterestExpense   decimal.Decimal `json:"interest_expense"`
	PrincipalPayment  decimal.Decimal `json:"principal_payment"`
	LoanPayoff        decimal.Decimal `json:"loan_payoff"`
	DebtService       decimal.Decimal `json:"debt_service"`
	EndingLoanBalance decimal.Decimal `json:"ending_loan_balance"`
	LeveragedCashFlow decimal.Decimal `json:"leveraged_cash_flow"`
}

// LeasingCosts is the sum of tenant improvements and commissions
func (p PeriodCashFlow) LeasingCosts() decimal.Decimal {
	return p.TenantImprovements.Add(p.LeasingCommissions)
}

// LoanPhase marks whether a loan period pays interest only or amortizes
type LoanPhase string

const (
	PhaseFunding      LoanPhase = "funding"
	PhaseInterestOnly LoanPhase = "interest_only"
	PhaseAmortizing   LoanPhase = "amortizing"
	PhaseRepaid       LoanPhase = "repaid"
)

// LoanPeriod is one row of a tranche's schedule
type LoanPeriod struct {
	Period           int             `json:"period"`
	Date             time.Time       `json:"date"`
	Phase            LoanPhase       `json:"phase"`
	Rate             decimal.Decimal `json:"rate"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	Draws            decimal.Decimal `json:"draws"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"` // includes Payoff
	Payoff           decimal.Decimal `json:"payoff"`    // balance retired at maturity or the horizon
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// ScheduledPrincipal is the principal paid under the loan's terms, excluding any payoff
func (lp LoanPeriod) ScheduledPrincipal() decimal.Decimal {
	return lp.Principal.Sub(lp.Payoff)
}

// DebtService is interest plus scheduled principal
func (lp LoanPeriod) DebtService() decimal.Decimal {
	return lp.Interest.Add(lp.ScheduledPrincipal())
}

// LoanSchedule is the full schedule of one tranche
type LoanSchedule struct {
	Tranche  string          `json:"tranche"`
	Proceeds decimal.Decimal `json:"proceeds"`
	Fees     decimal.Decimal `json:"fees"`
	Periods  []LoanPeriod    `json:"periods"`
}

// ExitValuation prices the sale from forward NOI
type ExitValuation struct {
	Period           int             `json:"period"`
	ForwardNOI       decimal.Decimal `json:"forward_noi"`
	CapRate          decimal.Decimal `json:"cap_rate"`
	GrossValue       decimal.Decimal `json:"gross_value"`
	DispositionCosts decimal.Decimal `json:"disposition_costs"`
	NetProceeds      decimal.Decimal `json:"net_proceeds"`
}

// ClassDistribution splits one tier's payout to a single class by character
type ClassDistribution struct {
	Preferred decimal.Decimal `json:"preferred"`
	Capital   decimal.Decimal `json:"capital"`
	Profit    decimal.Decimal `json:"profit"`
	Promote   decimal.Decimal `json:"promote"`
}

// Total is everything paid to the class in the tier
func (c ClassDistribution) Total() decimal.Decimal {
	return c.Preferred.Add(c.Capital).Add(c.Profit).Add(c.Promote)
}

// TierDistribution is what one tier paid in a period
type TierDistribution struct {
	Tier   string            `json:"tier"`
	ClassA ClassDistribution `json:"class_a"`
	ClassB ClassDistribution `json:"class_b"`
}

// PeriodDistribution is the waterfall result for one period
type PeriodDistribution struct {
	Period             int                `json:"period"`
	CashFlow           decimal.Decimal    `json:"cash_flow"`
	ContributionA      decimal.Decimal    `json:"contribution_a"`
	ContributionB      decimal.Decimal    `json:"contribution_b"`
	Tiers              []TierDistribution `json:"tiers"`
	DistributionA      decimal.Decimal    `json:"distribution_a"`
	DistributionB      decimal.Decimal    `json:"distribution_b"`
	UnreturnedCapitalA decimal.Decimal    `json:"unreturned_capital_a"`
	UnreturnedCapitalB decimal.Decimal    `json:"unreturned_capital_b"`
	UnpaidPreferredA   decimal.Decimal    `json:"unpaid_preferred_a"`
	UnpaidPreferredB   decimal.Decimal    `json:"unpaid_preferred_b"`
}

// ClassReturns summarises one equity class over the hold
type ClassReturns struct {
	Name           string          `json:"name"`
	Contributed    decimal.Decimal `json:"contributed"`
	Distributed    decimal.Decimal `json:"distributed"`
	Profit         decimal.Decimal `json:"profit"`
	EquityMultiple decimal.Decimal `json:"equity_multiple"`
	IRR            decimal.Decimal `json:"irr"`
}

// WaterfallResult is the full distribution output
type WaterfallResult struct {
	Periods []PeriodDistribution `json:"periods"`
	ClassA  ClassReturns         `json:"class_a"`
	ClassB  ClassReturns         `json:"class_b"`
}

// ReturnMetrics are the headline results of a projection
type ReturnMetrics struct {
	UnleveragedIRR      decimal.Decimal `json:"unleveraged_irr"`
	UnleveragedMultiple decimal.Decimal `json:"unleveraged_multiple"`
	UnleveragedProfit   decimal.Decimal `json:"unleveraged_profit"`
	LeveragedIRR        decimal.Decimal `json:"leveraged_irr"`
	LeveragedXIRR       decimal.Decimal `json:"leveraged_xirr"`
	LeveragedMultiple   decimal.Decimal `json:"leveraged_multiple"`
	LeveragedProfit     decimal.Decimal `json:"leveraged_profit"`
	MinimumDSCR         decimal.Decimal `json:"minimum_dscr"`
	InitialLoanConstant decimal.Decimal `json:"initial_loan_constant"`
	GoingInCapRate      decimal.Decimal `json:"going_in_cap_rate"`
	PaybackMonths       decimal.Decimal `json:"payback_months"` // zero when equity is never returned
}

// AnnualCashFlow rolls twelve periods into one projection year
type AnnualCashFlow struct {
	Year                   int             `json:"year"`
	EffectiveGrossRevenue  decimal.Decimal `json:"effective_gross_revenue"`
	TotalOperatingExpenses decimal.Decimal `json:"total_operating_expenses"`
	NOI                    decimal.Decimal `json:"noi"`
	LeasingCosts           decimal.Decimal `json:"leasing_costs"`
	DebtService            decimal.Decimal `json:"debt_service"`
	UnleveragedCashFlow    decimal.Decimal `json:"unleveraged_cash_flow"`
	LeveragedCashFlow      decimal.Decimal `json:"leveraged_cash_flow"`
}

// ProjectionResult is the output of one scenario run
type ProjectionResult struct {
	RunID         string           `json:"run_id"`
	DealName      string           `json:"deal_name"`
	ScenarioName  string           `json:"scenario_name"`
	HoldMonths    int              `json:"hold_months"`
	Periods       []PeriodCashFlow `json:"periods"`
	LoanSchedules []LoanSchedule   `json:"loan_schedules,omitempty"`
	Exit          ExitValuation    `json:"exit"`
	Waterfall     WaterfallResult  `json:"waterfall"`
	Metrics       ReturnMetrics    `json:"metrics"`
	Annual        []AnnualCashFlow `json:"annual"`
}

// HoldPeriods returns periods 0..hold, excluding forward periods
func (r *ProjectionResult) HoldPeriods() []PeriodCashFlow {
	out := make([]PeriodCashFlow, 0, len(r.Periods))
	for _, p := range r.Periods {
		if !p.Forward {
			out = append(out, p)
		}
	}
	return out
}

// ScenarioComparison collects the results of several scenario runs for one deal
type ScenarioComparison struct {
	DealName    string             `json:"deal_name"`
	Results     []ProjectionResult `json:"results"`
	Assumptions []string           `json:"assumptions,omitempty"`
}

package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	unity   = decimal.NewFromInt(1)
	minRate = decimal.NewFromInt(-1)
)

// Validate checks every structural invariant of a deal. It returns all
// violations joined, each a *ConfigurationError.
func (d Deal) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, NewConfigurationError(field, format, args...))
	}

	if d.Property.AcquisitionDate.IsZero() {
		add("property.acquisition_date", "is required")
	}
	if !d.Property.Area.IsPositive() {
		add("property.area", "must be positive, got %s", d.Property.Area)
	}
	if d.Property.PurchasePrice.IsNegative() || d.Property.ClosingCosts.IsNegative() {
		add("property", "purchase price and closing costs cannot be negative")
	}
	if d.Exit.HoldMonths < 1 {
		add("exit.hold_months", "must be at least 1, got %d", d.Exit.HoldMonths)
	}
	if d.Exit.CapRate.IsNegative() {
		add("exit.cap_rate", "cannot be negative, got %s", d.Exit.CapRate)
	}
	if d.Exit.DispositionCostRate.IsNegative() || d.Exit.DispositionCostRate.GreaterThanOrEqual(unity) {
		add("exit.disposition_cost_rate", "must be in [0, 1), got %s", d.Exit.DispositionCostRate)
	}

	d.validateOperating(add)
	for i, t := range d.Tenants {
		t.validate(fmt.Sprintf("tenants[%d]", i), add)
	}
	for i, l := range d.Loans {
		l.validate(fmt.Sprintf("loans[%d]", i), len(d.RateCurve.Points) > 0, add)
	}
	d.Waterfall.validate(add)

	return errors.Join(errs...)
}

func (d Deal) validateOperating(add func(string, string, ...any)) {
	ops := d.Operating
	growth := map[string]decimal.Decimal{
		"operating.rent_growth":         ops.RentGrowth,
		"operating.expense_growth":      ops.ExpenseGrowth,
		"operating.property_tax_growth": ops.PropertyTaxGrowth,
	}
	for i, a := range ops.Ancillary {
		growth[fmt.Sprintf("operating.ancillary[%d].growth", i)] = a.Growth
	}
	for field, rate := range growth {
		if rate.LessThanOrEqual(minRate) {
			add(field, "must be greater than -1, got %s", rate)
		}
	}
	if ops.VacancyRate.IsNegative() || ops.VacancyRate.GreaterThan(unity) {
		add("operating.vacancy_rate", "must be in [0, 1], got %s", ops.VacancyRate)
	}
	if ops.ManagementFeeRate.IsNegative() || ops.ManagementFeeRate.GreaterThanOrEqual(unity) {
		add("operating.management_fee_rate", "must be in [0, 1), got %s", ops.ManagementFeeRate)
	}
	switch ops.PropertyTaxMode {
	case "", EscalationContinuous, EscalationStepped:
	default:
		add("operating.property_tax_mode", "unknown mode %q", ops.PropertyTaxMode)
	}
}

func (t Tenant) validate(field string, add func(string, string, ...any)) {
	if t.Name == "" {
		add(field+".name", "is required")
	}
	if !t.Area.IsPositive() {
		add(field+".area", "must be positive, got %s", t.Area)
	}
	if t.InPlaceRent.IsNegative() || t.MarketRent.IsNegative() {
		add(field, "rent rates cannot be negative")
	}
	if t.LeaseEndPeriod < 0 {
		add(field+".lease_end_period", "cannot be negative, got %d", t.LeaseEndPeriod)
	}
	if t.BuildoutMonths < 0 || t.FreeRentMonths < 0 || t.NewLeaseTermYears < 0 {
		add(field, "buildout, free rent and lease term cannot be negative")
	}
	if t.FreeRentStart > 0 && t.FreeRentStart <= t.LeaseEndPeriod {
		add(field+".free_rent_start", "window starts at %d, before lease end %d", t.FreeRentStart, t.LeaseEndPeriod)
	}
	if t.FreeRentEnd > 0 && t.FreeRentEnd < t.FreeRentStart {
		add(field+".free_rent_end", "ends at %d, before its start %d", t.FreeRentEnd, t.FreeRentStart)
	}
	if t.FreeRentEnd > 0 && t.FreeRentStart == 0 {
		add(field+".free_rent_end", "set without free_rent_start")
	}
	if t.Commission.EarlyRate.IsNegative() || t.Commission.LateRate.IsNegative() {
		add(field+".commission", "rates cannot be negative")
	}
}

func (l LoanTranche) validate(field string, hasCurve bool, add func(string, string, ...any)) {
	if !l.Principal.IsPositive() {
		add(field+".principal", "must be positive, got %s", l.Principal)
	}
	switch l.RateType {
	case "", RateFixed:
		if l.FixedRate.IsNegative() {
			add(field+".fixed_rate", "cannot be negative, got %s", l.FixedRate)
		}
	case RateFloating:
		if !hasCurve {
			add(field+".rate_type", "floating tranche requires rate_curve points")
		}
	default:
		add(field+".rate_type", "unknown rate type %q", l.RateType)
	}
	switch l.DayCount {
	case "", DayCountActual365, DayCountThirty360:
	default:
		add(field+".day_count", "unknown convention %q", l.DayCount)
	}
	if l.InterestOnlyMonths < 0 || l.AmortizationMonths < 0 || l.TermMonths < 0 {
		add(field, "loan month counts cannot be negative")
	}
	if l.TermMonths > 0 && l.InterestOnlyMonths > l.TermMonths {
		add(field+".interest_only_months", "%d exceeds term of %d months", l.InterestOnlyMonths, l.TermMonths)
	}
	if l.TermMonths > 0 && l.InterestOnlyMonths < l.TermMonths && l.AmortizationMonths == 0 {
		add(field+".amortization_months", "required when the loan amortizes before maturity")
	}
	if l.OriginationFeeRate.IsNegative() || l.ClosingCosts.IsNegative() {
		add(field, "fees cannot be negative")
	}
	for i, draw := range l.Draws {
		if draw.Period < 1 || (l.TermMonths > 0 && draw.Period > l.TermMonths) {
			add(fmt.Sprintf("%s.draws[%d].period", field, i), "must fall within the loan term, got %d", draw.Period)
		}
		if !draw.Amount.IsPositive() {
			add(fmt.Sprintf("%s.draws[%d].amount", field, i), "must be positive")
		}
	}
}

func (w WaterfallConfig) validate(add func(string, string, ...any)) {
	if w.ClassA.Name == "" || w.ClassB.Name == "" {
		add("waterfall", "both capital classes need a name")
	} else if w.ClassA.Name == w.ClassB.Name {
		add("waterfall", "capital class names must differ, both are %q", w.ClassA.Name)
	}
	if w.ClassA.Share.IsNegative() || w.ClassB.Share.IsNegative() || !w.ClassA.Share.Add(w.ClassB.Share).Equal(unity) {
		add("waterfall", "class shares must be non-negative and sum to 1, got %s and %s", w.ClassA.Share, w.ClassB.Share)
	}
	if w.CarryingClass != "" && w.CarryingClass != w.ClassA.Name && w.CarryingClass != w.ClassB.Name {
		add("waterfall.carrying_class", "references undefined class %q", w.CarryingClass)
	}
	if len(w.Tiers) == 0 {
		add("waterfall.tiers", "at least one tier is required")
	}
	for i, t := range w.Tiers {
		f := fmt.Sprintf("waterfall.tiers[%d]", i)
		validateSplit(f, t.ClassASplit, t.ClassBSplit, t.Promote, add)
		if t.PrefRate.LessThanOrEqual(minRate) {
			add(f+".pref_rate", "must be greater than -1, got %s", t.PrefRate)
		}
		switch t.Accrual {
		case "", AccrualSimple, AccrualCompounding:
		default:
			add(f+".accrual", "unknown accrual method %q", t.Accrual)
		}
	}
	fs := w.FinalSplit
	validateSplit("waterfall.final_split", fs.ClassASplit, fs.ClassBSplit, fs.Promote, add)
}

func validateSplit(field string, a, b, promote decimal.Decimal, add func(string, string, ...any)) {
	if a.IsNegative() || b.IsNegative() || !a.Add(b).Equal(unity) {
		add(field, "class splits must be non-negative and sum to 1, got %s and %s", a, b)
	}
	if promote.LessThan(zero) || promote.GreaterThanOrEqual(unity) {
		add(field+".promote", "must be in [0, 1), got %s", promote)
	}
}

// Clone returns a deep copy so a projection can apply defaults without touching shared input
func (d Deal) Clone() Deal {
	out := d
	out.Tenants = append([]Tenant(nil), d.Tenants...)
	out.Operating.Ancillary = append([]AncillaryIncome(nil), d.Operating.Ancillary...)
	out.RateCurve.Points = append([]RatePoint(nil), d.RateCurve.Points...)
	out.Waterfall.Tiers = append([]WaterfallTier(nil), d.Waterfall.Tiers...)
	out.Loans = make([]LoanTranche, len(d.Loans))
	for i, l := range d.Loans {
		l.Draws = append([]LoanDraw(nil), l.Draws...)
		out.Loans[i] = l
	}
	return out
}

// Assumptions describes the key deal inputs for reports
func (d Deal) Assumptions() []string {
	pct := func(v decimal.Decimal) string { return v.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%" }
	out := []string{
		fmt.Sprintf("Acquisition: %s for $%s plus $%s closing", d.Property.AcquisitionDate.Format("2006-01-02"),
			d.Property.PurchasePrice.StringFixed(0), d.Property.ClosingCosts.StringFixed(0)),
		fmt.Sprintf("Hold: %d months, exit cap %s, disposition costs %s", d.Exit.HoldMonths, pct(d.Exit.CapRate), pct(d.Exit.DispositionCostRate)),
		fmt.Sprintf("Rent growth %s, expense growth %s, vacancy %s", pct(d.Operating.RentGrowth), pct(d.Operating.ExpenseGrowth), pct(d.Operating.VacancyRate)),
		fmt.Sprintf("Tenants: %d", len(d.Tenants)),
	}
	for _, l := range d.Loans {
		rate := pct(l.FixedRate)
		if l.RateType == RateFloating {
			rate = "curve + " + pct(l.Spread)
		}
		out = append(out, fmt.Sprintf("Loan %s: $%s at %s, %d months IO", l.Name, l.Principal.StringFixed(0), rate, l.InterestOnlyMonths))
	}
	out = append(out, fmt.Sprintf("Equity: %s %s / %s %s", d.Waterfall.ClassA.Name, pct(d.Waterfall.ClassA.Share),
		d.Waterfall.ClassB.Name, pct(d.Waterfall.ClassB.Share)))
	return out
}

package calculation

import (
	"github.com/rpgo/cre-proforma/internal/domain"
	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/shopspring/decimal"
)

const (
	classA = 0
	classB = 1
)

// hurdleAccount is one class's unreturned capital and unpaid preferred return under a tier
type hurdleAccount struct {
	capital decimal.Decimal
	pref    decimal.Decimal
}

type tierState struct {
	tier        domain.WaterfallTier
	monthlyRate decimal.Decimal
	compounding bool
	accounts    [2]hurdleAccount
}

// WaterfallEngine allocates leveraged cash flows between two capital classes
type WaterfallEngine struct {
	Config domain.WaterfallConfig
	Logger Logger
}

// NewWaterfallEngine creates a waterfall engine for a configuration
func NewWaterfallEngine(cfg domain.WaterfallConfig) *WaterfallEngine {
	return &WaterfallEngine{Config: cfg, Logger: NopLogger{}}
}

// MonthlyPrefRate converts an annual preferred rate to the monthly accrual rate
func MonthlyPrefRate(annualRate decimal.Decimal, compounding bool) decimal.Decimal {
	if compounding {
		return AnnualToMonthly(annualRate)
	}
	return annualRate.Div(twelve)
}

func (we *WaterfallEngine) carryingIndex() int {
	if we.Config.CarryingClass != "" && we.Config.CarryingClass == we.Config.ClassA.Name {
		return classA
	}
	return classB
}

func (we *WaterfallEngine) newTierStates() []*tierState {
	states := make([]*tierState, len(we.Config.Tiers))
	for i, t := range we.Config.Tiers {
		compounding := we.Config.Compounding
		switch t.Accrual {
		case domain.AccrualCompounding:
			compounding = true
		case domain.AccrualSimple:
			compounding = false
		}
		states[i] = &tierState{
			tier:        t,
			monthlyRate: MonthlyPrefRate(t.PrefRate, compounding),
			compounding: compounding,
		}
	}
	return states
}

// Distribute runs the leveraged series through the tiers. Period i of the
// result corresponds to cashFlows[i].
func (we *WaterfallEngine) Distribute(cashFlows []decimal.Decimal) (*domain.WaterfallResult, error) {
	if len(we.Config.Tiers) == 0 {
		return nil, domain.NewConfigurationError("waterfall.tiers", "at least one tier is required")
	}

	tiers := we.newTierStates()
	carry := we.carryingIndex()
	result := &domain.WaterfallResult{Periods: make([]domain.PeriodDistribution, 0, len(cashFlows))}

	for p, cf := range cashFlows {
		if p > 0 {
			for _, ts := range tiers {
				ts.accrue()
			}
		}

		pd := domain.PeriodDistribution{
			Period:        p,
			CashFlow:      cf,
			ContributionA: decimal.Zero,
			ContributionB: decimal.Zero,
			DistributionA: decimal.Zero,
			DistributionB: decimal.Zero,
		}

		switch {
		case cf.IsNegative():
			call := cf.Neg()
			pd.ContributionA = call.Mul(we.Config.ClassA.Share)
			pd.ContributionB = call.Sub(pd.ContributionA)
			for _, ts := range tiers {
				ts.accounts[classA].capital = ts.accounts[classA].capital.Add(pd.ContributionA)
				ts.accounts[classB].capital = ts.accounts[classB].capital.Add(pd.ContributionB)
			}
		case cf.IsPositive():
			pd.Tiers = we.distributeCash(cf, tiers, carry)
			for _, td := range pd.Tiers {
				pd.DistributionA = pd.DistributionA.Add(td.ClassA.Total())
				pd.DistributionB = pd.DistributionB.Add(td.ClassB.Total())
			}
		}

		first := tiers[0].accounts
		pd.UnreturnedCapitalA = first[classA].capital
		pd.UnreturnedCapitalB = first[classB].capital
		pd.UnpaidPreferredA = first[classA].pref
		pd.UnpaidPreferredB = first[classB].pref
		result.Periods = append(result.Periods, pd)
	}

	result.ClassA = summarizeClass(we.Config.ClassA.Name, result.Periods, classA)
	result.ClassB = summarizeClass(we.Config.ClassB.Name, result.Periods, classB)
	we.Logger.Debugf("waterfall: %s distributed %s, %s distributed %s",
		result.ClassA.Name, result.ClassA.Distributed.StringFixed(2),
		result.ClassB.Name, result.ClassB.Distributed.StringFixed(2))
	return result, nil
}

func (ts *tierState) accrue() {
	for c := range ts.accounts {
		acct := &ts.accounts[c]
		base := acct.capital
		if ts.compounding {
			base = base.Add(acct.pref)
		}
		if base.IsPositive() {
			acct.pref = acct.pref.Add(base.Mul(ts.monthlyRate))
		}
	}
}

// distributeCash pays one period's positive cash through each tier, then the final split
func (we *WaterfallEngine) distributeCash(cash decimal.Decimal, tiers []*tierState, carry int) []domain.TierDistribution {
	remaining := cash
	var prefPaid, capitalPaid [2]decimal.Decimal
	out := make([]domain.TierDistribution, 0, len(tiers)+1)

	for _, ts := range tiers {
		// amounts already paid this period by earlier tiers count toward this hurdle
		for c := range ts.accounts {
			ts.accounts[c].settle(prefPaid[c], capitalPaid[c])
		}

		td := domain.TierDistribution{Tier: ts.tier.Name}
		weights := [2]decimal.Decimal{ts.tier.ClassASplit, ts.tier.ClassBSplit}
		investorShare := one.Sub(ts.tier.Promote)
		capacity := remaining.Mul(investorShare)

		prefOwed := [2]decimal.Decimal{ts.accounts[classA].pref, ts.accounts[classB].pref}
		pref := allocate(capacity, prefOwed, weights)
		capacity = capacity.Sub(pref[classA]).Sub(pref[classB])

		capOwed := [2]decimal.Decimal{ts.accounts[classA].capital, ts.accounts[classB].capital}
		capital := allocate(capacity, capOwed, weights)

		investorPaid := money.Sum(pref[classA], pref[classB], capital[classA], capital[classB])
		promote := decimal.Zero
		if investorPaid.IsPositive() && ts.tier.Promote.IsPositive() && investorShare.IsPositive() {
			promote = investorPaid.Mul(ts.tier.Promote).Div(investorShare)
			promote = decimal.Min(promote, remaining.Sub(investorPaid))
		}

		for c := range ts.accounts {
			ts.accounts[c].pref = ts.accounts[c].pref.Sub(pref[c])
			ts.accounts[c].capital = ts.accounts[c].capital.Sub(capital[c])
			prefPaid[c] = prefPaid[c].Add(pref[c])
			capitalPaid[c] = capitalPaid[c].Add(capital[c])
		}

		td.ClassA = domain.ClassDistribution{Preferred: pref[classA], Capital: capital[classA], Profit: decimal.Zero, Promote: decimal.Zero}
		td.ClassB = domain.ClassDistribution{Preferred: pref[classB], Capital: capital[classB], Profit: decimal.Zero, Promote: decimal.Zero}
		addPromote(&td, carry, promote)

		remaining = remaining.Sub(investorPaid).Sub(promote)
		out = append(out, td)
	}

	final := domain.TierDistribution{Tier: "final split"}
	final.ClassA = domain.ClassDistribution{Preferred: decimal.Zero, Capital: decimal.Zero, Profit: decimal.Zero, Promote: decimal.Zero}
	final.ClassB = final.ClassA
	if remaining.IsPositive() {
		fs := we.Config.FinalSplit
		promote := remaining.Mul(fs.Promote)
		investor := remaining.Sub(promote)
		final.ClassA.Profit = investor.Mul(fs.ClassASplit)
		final.ClassB.Profit = investor.Sub(final.ClassA.Profit)
		addPromote(&final, carry, promote)
	}
	out = append(out, final)
	return out
}

// settle applies payments already made this period. Overflow from one account
// spills into the other.
func (a *hurdleAccount) settle(prefPaid, capitalPaid decimal.Decimal) {
	a.pref = a.pref.Sub(prefPaid)
	a.capital = a.capital.Sub(capitalPaid)
	if a.pref.IsNegative() {
		a.capital = a.capital.Add(a.pref)
		a.pref = decimal.Zero
	}
	if a.capital.IsNegative() {
		a.pref = a.pref.Add(a.capital)
		a.capital = decimal.Zero
	}
	a.clampZero()
}

func (a *hurdleAccount) clampZero() {
	a.pref = money.NonNegative(a.pref)
	a.capital = money.NonNegative(a.capital)
}

func addPromote(td *domain.TierDistribution, carry int, promote decimal.Decimal) {
	if carry == classA {
		td.ClassA.Promote = td.ClassA.Promote.Add(promote)
		return
	}
	td.ClassB.Promote = td.ClassB.Promote.Add(promote)
}

// allocate pays up to capacity against owed amounts in proportion to weights.
// When one class is fully paid its weight moves to the other.
func allocate(capacity decimal.Decimal, owed, weights [2]decimal.Decimal) [2]decimal.Decimal {
	paid := [2]decimal.Decimal{decimal.Zero, decimal.Zero}
	left := capacity

	for round := 0; round < 3 && left.IsPositive(); round++ {
		var active []int
		for c := range owed {
			if owed[c].Sub(paid[c]).IsPositive() {
				active = append(active, c)
			}
		}
		if len(active) == 0 {
			break
		}

		w := [2]decimal.Decimal{decimal.Zero, decimal.Zero}
		total := decimal.Zero
		for _, c := range active {
			w[c] = weights[c]
			total = total.Add(w[c])
		}
		if !total.IsPositive() {
			for _, c := range active {
				w[c] = owed[c].Sub(paid[c])
				total = total.Add(w[c])
			}
		}

		// cash needed to clear the first class at the current weighting
		step := left
		for _, c := range active {
			if !w[c].IsPositive() {
				continue
			}
			need := owed[c].Sub(paid[c]).Mul(total).Div(w[c])
			step = decimal.Min(step, need)
		}

		spent := decimal.Zero
		for _, c := range active {
			pay := step.Mul(w[c]).Div(total)
			pay = decimal.Min(pay, owed[c].Sub(paid[c]))
			paid[c] = paid[c].Add(pay)
			spent = spent.Add(pay)
		}
		if !spent.IsPositive() {
			break
		}
		left = left.Sub(spent)
	}
	return paid
}

func summarizeClass(name string, periods []domain.PeriodDistribution, class int) domain.ClassReturns {
	cr := domain.ClassReturns{Name: name, Contributed: decimal.Zero, Distributed: decimal.Zero, EquityMultiple: decimal.Zero, IRR: decimal.Zero}
	for _, pd := range periods {
		if class == classA {
			cr.Contributed = cr.Contributed.Add(pd.ContributionA)
			cr.Distributed = cr.Distributed.Add(pd.DistributionA)
		} else {
			cr.Contributed = cr.Contributed.Add(pd.ContributionB)
			cr.Distributed = cr.Distributed.Add(pd.DistributionB)
		}
	}
	cr.Profit = cr.Distributed.Sub(cr.Contributed)
	if cr.Contributed.IsPositive() {
		cr.EquityMultiple = cr.Distributed.Div(cr.Contributed)
	}
	return cr
}

// ClassCashFlows returns each class's net series: distributions less contributions
func ClassCashFlows(result *domain.WaterfallResult) (a, b []decimal.Decimal) {
	a = make([]decimal.Decimal, len(result.Periods))
	b = make([]decimal.Decimal, len(result.Periods))
	for i, pd := range result.Periods {
		a[i] = pd.DistributionA.Sub(pd.ContributionA)
		b[i] = pd.DistributionB.Sub(pd.ContributionB)
	}
	return a, b
}

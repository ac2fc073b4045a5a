package calculation

import (
	"github.com/rpgo/cre-proforma/internal/domain"
	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/shopspring/decimal"
)

// LeaseTimeline is one tenant's rollover schedule expressed as period indices.
// Empty windows have End < Start.
type LeaseTimeline struct {
	LeaseEnd          int
	Rollover          bool
	BuildoutStart     int
	BuildoutEnd       int
	FreeRentStart     int
	FreeRentEnd       int
	MarketStart       int
	LeasingCostPeriod int // 0 when no leasing costs are charged
}

// NewLeaseTimeline derives the rollover schedule for a tenant
func NewLeaseTimeline(t domain.Tenant) LeaseTimeline {
	lt := LeaseTimeline{
		LeaseEnd:      t.LeaseEndPeriod,
		Rollover:      t.ApplyRolloverCosts,
		BuildoutStart: t.LeaseEndPeriod + 1,
		BuildoutEnd:   t.LeaseEndPeriod,
		FreeRentEnd:   -1,
		MarketStart:   t.LeaseEndPeriod + 1,
	}
	if !t.ApplyRolloverCosts {
		return lt
	}

	lt.BuildoutEnd = t.LeaseEndPeriod + t.BuildoutMonths
	lt.MarketStart = lt.BuildoutEnd + 1

	switch {
	case t.FreeRentStart > 0:
		lt.FreeRentStart = t.FreeRentStart
		lt.FreeRentEnd = t.FreeRentEnd
		if lt.FreeRentEnd == 0 {
			lt.FreeRentEnd = t.FreeRentStart + t.FreeRentMonths - 1
		}
	case t.FreeRentMonths > 0:
		lt.FreeRentStart = lt.MarketStart
		lt.FreeRentEnd = lt.MarketStart + t.FreeRentMonths - 1
	}

	last := lt.BuildoutEnd
	if lt.HasFreeRent() && lt.FreeRentEnd > last {
		last = lt.FreeRentEnd
	}
	lt.LeasingCostPeriod = last + 1
	return lt
}

// HasFreeRent reports whether the timeline carries a free-rent window
func (lt LeaseTimeline) HasFreeRent() bool {
	return lt.FreeRentStart > 0 && lt.FreeRentEnd >= lt.FreeRentStart
}

// FreeRentMonths is the length of the free-rent window
func (lt LeaseTimeline) FreeRentMonths() int {
	if !lt.HasFreeRent() {
		return 0
	}
	return lt.FreeRentEnd - lt.FreeRentStart + 1
}

// StateAt returns the lease state for a period
func (lt LeaseTimeline) StateAt(period int) domain.LeaseState {
	switch {
	case period <= 0:
		return domain.StateNone
	case period <= lt.LeaseEnd:
		return domain.StateInPlace
	case !lt.Rollover:
		return domain.StateMarketRent
	case period <= lt.BuildoutEnd:
		return domain.StateBuildout
	case lt.HasFreeRent() && period >= lt.FreeRentStart && period <= lt.FreeRentEnd:
		return domain.StateFreeRent
	default:
		return domain.StateMarketRent
	}
}

// TenantCalculator computes per-tenant revenue and leasing costs
type TenantCalculator struct {
	RentGrowth    decimal.Decimal
	ExpenseGrowth decimal.Decimal
}

// NewTenantCalculator creates a tenant calculator from operating assumptions
func NewTenantCalculator(ops domain.OperatingAssumptions) *TenantCalculator {
	return &TenantCalculator{
		RentGrowth:    ops.RentGrowth,
		ExpenseGrowth: ops.ExpenseGrowth,
	}
}

// Revenue returns the tenant's gross rent, free-rent deduction and leasing costs for a period
func (tc *TenantCalculator) Revenue(t domain.Tenant, period int) domain.TenantPeriod {
	lt := NewLeaseTimeline(t)
	state := lt.StateAt(period)
	out := domain.TenantPeriod{
		Name:               t.Name,
		State:              state,
		Gross:              decimal.Zero,
		FreeRent:           decimal.Zero,
		TenantImprovements: decimal.Zero,
		LeasingCommission:  decimal.Zero,
	}

	switch state {
	case domain.StateInPlace:
		out.Gross = tc.monthlyRent(t.Area, t.InPlaceRent, period)
	case domain.StateMarketRent:
		out.Gross = tc.monthlyRent(t.Area, t.MarketRent, period)
	case domain.StateFreeRent:
		out.Gross = tc.monthlyRent(t.Area, t.MarketRent, period)
		out.FreeRent = out.Gross.Neg()
	}

	if lt.Rollover && period == lt.LeasingCostPeriod {
		out.TenantImprovements = t.TIPerArea.Mul(t.Area).Mul(ExpenseEscalation(tc.ExpenseGrowth, period))
		out.LeasingCommission = tc.LeaseCommission(t, lt.MarketStart, lt.FreeRentMonths())
	}

	return out
}

func (tc *TenantCalculator) monthlyRent(area, rate decimal.Decimal, period int) decimal.Decimal {
	return money.PerAreaMonthly(area, rate).Mul(RentEscalation(tc.RentGrowth, period))
}

// LeaseCommission prices the commission on a new lease starting at startPeriod.
// Each lease year's rent grows from year one by the rent growth rate; free months
// reduce net rent starting in year one and spill into later years.
func (tc *TenantCalculator) LeaseCommission(t domain.Tenant, startPeriod, freeMonths int) decimal.Decimal {
	total := decimal.Zero
	if t.NewLeaseTermYears <= 0 {
		return total
	}

	yearOne := t.Area.Mul(t.MarketRent).Mul(RentEscalation(tc.RentGrowth, startPeriod))
	growth := one.Add(tc.RentGrowth)
	remainingFree := freeMonths

	for year := 1; year <= t.NewLeaseTermYears; year++ {
		rent := yearOne.Mul(money.PowInt(growth, year-1))

		free := remainingFree
		if free > 12 {
			free = 12
		}
		remainingFree -= free
		net := rent.Mul(decimal.NewFromInt(int64(12 - free))).Div(twelve)

		rate := t.Commission.LateRate
		if year <= t.Commission.EarlyYears {
			rate = t.Commission.EarlyRate
		}
		total = total.Add(net.Mul(rate))
	}
	return total
}

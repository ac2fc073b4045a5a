package calculation

import (
	"math"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/rpgo/cre-proforma/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// DefaultSeeds are the Newton starting guesses, tried in order
var DefaultSeeds = []float64{0.1, 0.01, 0, -0.05, 0.25, 0.5}

// bracketGrid is scanned for a sign change when every Newton seed fails
var bracketGrid = []float64{-0.9999, -0.99, -0.9, -0.75, -0.5, -0.25, -0.1, 0, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 100}

// ReturnCalculator solves for internal rates of return
type ReturnCalculator struct {
	Tolerance     float64
	MaxIterations int
	Seeds         []float64
}

// NewReturnCalculator creates a return calculator from the default assumption set
func NewReturnCalculator(d domain.Defaults) *ReturnCalculator {
	d = d.Merge(domain.StandardDefaults())
	return &ReturnCalculator{
		Tolerance:     d.IRRTolerance,
		MaxIterations: d.IRRMaxIterations,
		Seeds:         DefaultSeeds,
	}
}

// NPV discounts evenly spaced cash flows at a per-period rate. The first flow is undiscounted.
func NPV(rate float64, cashFlows []float64) float64 {
	if len(cashFlows) == 0 {
		return 0
	}
	discounts := make([]float64, len(cashFlows))
	floats.AddConst(1, discounts)
	factor := 1 / (1 + rate)
	for i := 1; i < len(discounts); i++ {
		discounts[i] = discounts[i-1] * factor
	}
	return floats.Dot(cashFlows, discounts)
}

// XNPV discounts dated cash flows at an annual rate using actual/365 year fractions from the first date.
// It returns 0 when fewer dates than cash flows are supplied.
func XNPV(rate float64, cashFlows []float64, dates []time.Time) float64 {
	if len(cashFlows) == 0 || len(dates) < len(cashFlows) {
		return 0
	}
	discounts := make([]float64, len(cashFlows))
	for i, d := range dates[:len(cashFlows)] {
		t := dateutil.YearFraction(dates[0], d, dateutil.Actual365)
		discounts[i] = math.Pow(1+rate, -t)
	}
	return floats.Dot(cashFlows, discounts)
}

// IRR returns the per-period internal rate of return of evenly spaced cash flows
func (rc *ReturnCalculator) IRR(cashFlows []decimal.Decimal) (decimal.Decimal, error) {
	flows := money.ToFloats(cashFlows)
	rate, err := rc.solve("irr", flows, func(r float64) (float64, float64) {
		var f, df float64
		for i, cf := range flows {
			f += cf / math.Pow(1+r, float64(i))
			df -= float64(i) * cf / math.Pow(1+r, float64(i+1))
		}
		return f, df
	})
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(rate), nil
}

// MonthlyIRRAnnualized solves a monthly series and compounds the result to an annual rate
func (rc *ReturnCalculator) MonthlyIRRAnnualized(cashFlows []decimal.Decimal) (decimal.Decimal, error) {
	monthly, err := rc.IRR(cashFlows)
	if err != nil {
		return decimal.Zero, err
	}
	return MonthlyToAnnual(monthly), nil
}

// XIRR returns the annual rate at which the XNPV of dated cash flows is zero
func (rc *ReturnCalculator) XIRR(cashFlows []decimal.Decimal, dates []time.Time) (decimal.Decimal, error) {
	if len(dates) < len(cashFlows) {
		return decimal.Zero, domain.NewConfigurationError("dates", "%d dates supplied for %d cash flows", len(dates), len(cashFlows))
	}
	flows := money.ToFloats(cashFlows)
	years := make([]float64, len(flows))
	for i := range flows {
		years[i] = dateutil.YearFraction(dates[0], dates[i], dateutil.Actual365)
	}
	rate, err := rc.solve("xirr", flows, func(r float64) (float64, float64) {
		var f, df float64
		for i, cf := range flows {
			f += cf / math.Pow(1+r, years[i])
			df -= years[i] * cf / math.Pow(1+r, years[i]+1)
		}
		return f, df
	})
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(rate), nil
}

// solve finds a root of the discounting function: Newton from each seed first, then bisection.
// A root is accepted only when |NPV| <= Tolerance * max|cash flow|.
func (rc *ReturnCalculator) solve(method string, flows []float64, ffp func(float64) (float64, float64)) (float64, error) {
	if len(flows) < 2 {
		return 0, &domain.ConvergenceError{Method: method, Reason: "at least two cash flows are required", CashFlows: flows}
	}
	if !hasSignChange(flows) {
		return 0, &domain.ConvergenceError{Method: method, Reason: "cash flows have no sign change", CashFlows: flows}
	}

	residual := rc.Tolerance * floats.Norm(flows, math.Inf(1))
	for _, seed := range rc.Seeds {
		if r, ok := rc.newton(seed, residual, ffp); ok {
			return r, nil
		}
	}

	f := func(r float64) float64 {
		v, _ := ffp(r)
		return v
	}
	if r, ok := rc.bisect(residual, f); ok {
		return r, nil
	}
	return 0, &domain.ConvergenceError{Method: method, Reason: "no root found within iteration budget", CashFlows: flows}
}

func (rc *ReturnCalculator) newton(x0, residual float64, ffp func(float64) (float64, float64)) (float64, bool) {
	x := x0
	for k := 0; k < rc.MaxIterations; k++ {
		y, dy := ffp(x)
		if dy == 0 || math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, false
		}
		x1 := x - y/dy
		if math.IsNaN(x1) || math.IsInf(x1, 0) || x1 <= -1 {
			return 0, false
		}
		if math.Abs(x1-x) <= rc.Tolerance {
			if y1, _ := ffp(x1); math.Abs(y1) <= residual {
				return x1, true
			}
		}
		x = x1
	}
	return 0, false
}

func (rc *ReturnCalculator) bisect(residual float64, f func(float64) float64) (float64, bool) {
	for _, r := range bracketGrid {
		if math.Abs(f(r)) <= residual {
			return r, true
		}
	}
	for i := 1; i < len(bracketGrid); i++ {
		low, high := bracketGrid[i-1], bracketGrid[i]
		fl, fh := f(low), f(high)
		if math.IsNaN(fl) || math.IsNaN(fh) || fl*fh > 0 {
			continue
		}
		for k := 0; k < rc.MaxIterations; k++ {
			mid := (low + high) / 2
			fm := f(mid)
			if math.Abs(fm) <= residual {
				return mid, true
			}
			if mid == low || mid == high {
				// bracket is down to adjacent floats
				break
			}
			if fl*fm < 0 {
				high = mid
			} else {
				low, fl = mid, fm
			}
		}
	}
	return 0, false
}

func hasSignChange(flows []float64) bool {
	var pos, neg bool
	for _, cf := range flows {
		switch {
		case cf > 0:
			pos = true
		case cf < 0:
			neg = true
		}
	}
	return pos && neg
}

// MonthlyToAnnual compounds a monthly rate: (1 + m)^12 - 1
func MonthlyToAnnual(monthly decimal.Decimal) decimal.Decimal {
	return money.PowInt(one.Add(monthly), 12).Sub(one)
}

// AnnualToMonthly de-compounds an annual rate: (1 + a)^(1/12) - 1
func AnnualToMonthly(annual decimal.Decimal) decimal.Decimal {
	return money.PowFloat(one.Add(annual), 1.0/12.0).Sub(one)
}

// EquityMultiple is total inflows divided by total outflows
func EquityMultiple(cashFlows []decimal.Decimal) (decimal.Decimal, error) {
	in, out := decimal.Zero, decimal.Zero
	for _, cf := range cashFlows {
		if cf.IsPositive() {
			in = in.Add(cf)
		} else {
			out = out.Sub(cf)
		}
	}
	return domain.SafeDiv("equity multiple", in, out)
}

// Profit is the undiscounted sum of a cash-flow series
func Profit(cashFlows []decimal.Decimal) decimal.Decimal {
	return money.Sum(cashFlows...)
}

package main

import (
	"fmt"
	"os"

	"github.com/rpgo/cre-proforma/internal/calculation"
	"github.com/rpgo/cre-proforma/internal/config"
	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/rpgo/cre-proforma/pkg/dateutil"
)

// Prints each tenant's lease state transitions for a deal file (or the built-in
// example) so rollover timing can be checked against a lease abstract.
func main() {
	parser := config.NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	if len(os.Args) > 1 {
		loaded, err := parser.LoadFromFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	deal := cfg.Deal.Clone()
	deal.ApplyDefaults(cfg.Defaults.Merge(domain.StandardDefaults()))
	hold := deal.Exit.HoldMonths
	dates := dateutil.MonthlyDates(deal.Property.AcquisitionDate, hold+1)
	tc := calculation.NewTenantCalculator(deal.Operating)

	fmt.Printf("Rollover timeline: %s (%d month hold)\n", deal.Name, hold)
	for _, t := range deal.Tenants {
		lt := calculation.NewLeaseTimeline(t)
		fmt.Printf("\n%s (%s sf)\n", t.Name, t.Area.StringFixed(0))
		fmt.Printf("  lease end %d, buildout %d-%d, free rent %d months, market from %d\n",
			lt.LeaseEnd, lt.BuildoutStart, lt.BuildoutEnd, lt.FreeRentMonths(), lt.MarketStart)

		prev := domain.LeaseState("")
		for p := 1; p <= hold; p++ {
			state := lt.StateAt(p)
			rev := tc.Revenue(t, p)
			if state != prev {
				fmt.Printf("  %4d %s  %-12s gross %12s  free %12s\n", p, dates[p].Format("2006-01-02"), state,
					rev.Gross.StringFixed(2), rev.FreeRent.StringFixed(2))
				prev = state
			}
			if rev.TenantImprovements.IsPositive() || rev.LeasingCommission.IsPositive() {
				fmt.Printf("  %4d %s  leasing costs: TI %s, commission %s\n", p, dates[p].Format("2006-01-02"),
					rev.TenantImprovements.StringFixed(2), rev.LeasingCommission.StringFixed(2))
			}
		}
	}
}

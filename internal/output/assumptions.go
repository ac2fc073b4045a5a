package output

import "github.com/rpgo/cre-proforma/internal/domain"

// MethodologyNotes lists the modeling conventions rendered in detailed outputs.
var MethodologyNotes = []string{
	"Rent escalates monthly at the annual rent growth rate / 12",
	"Expenses escalate at (1 + growth)^(period / 12); property tax steps on each anniversary unless set to continuous",
	"Exit value capitalises the 12 months of NOI after the hold at the exit cap rate",
	"Tenant improvements and leasing commissions are deducted below NOI",
	"Preferred returns accrue monthly from the period after each contribution; shortfalls carry forward",
}

// ReportAssumptions returns the deal assumptions carried on the results, or the
// methodology notes when none were recorded
func ReportAssumptions(results *domain.ScenarioComparison) []string {
	if len(results.Assumptions) == 0 {
		return MethodologyNotes
	}
	return results.Assumptions
}

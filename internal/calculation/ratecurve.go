package calculation

import (
	"sort"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
)

// RateCurve is a date-indexed forward rate curve with a floor
type RateCurve struct {
	points []domain.RatePoint
	floor  decimal.Decimal
}

// NewRateCurve builds a curve from dated points. Points are sorted; duplicate dates are rejected.
func NewRateCurve(points []domain.RatePoint, floor decimal.Decimal) (*RateCurve, error) {
	if len(points) == 0 {
		return nil, domain.NewConfigurationError("rate_curve.points", "at least one point is required")
	}

	sorted := make([]domain.RatePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, domain.NewConfigurationError("rate_curve.points", "duplicate date %s", sorted[i].Date.Format("2006-01-02"))
		}
	}

	return &RateCurve{points: sorted, floor: floor}, nil
}

// RateAt returns the rate of the latest point on or before date, never below the floor.
// Queries before the first point fail with a LookupError.
func (rc *RateCurve) RateAt(date time.Time) (decimal.Decimal, error) {
	idx := sort.Search(len(rc.points), func(i int) bool { return rc.points[i].Date.After(date) })
	if idx == 0 {
		return decimal.Zero, &domain.LookupError{Date: date, Earliest: rc.points[0].Date}
	}
	return decimal.Max(rc.points[idx-1].Rate, rc.floor), nil
}

// Floor returns the curve-wide minimum rate
func (rc *RateCurve) Floor() decimal.Decimal {
	return rc.floor
}

// Len returns the number of points on the curve
func (rc *RateCurve) Len() int {
	return len(rc.points)
}

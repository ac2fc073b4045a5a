package calculation

import (
	"errors"
	"testing"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCurve(t *testing.T) *RateCurve {
	t.Helper()
	curve, err := NewRateCurve([]domain.RatePoint{
		{Date: day(2026, 6, 30), Rate: decimal.NewFromFloat(0.040)},
		{Date: day(2026, 3, 31), Rate: decimal.NewFromFloat(0.045)},
		{Date: day(2026, 9, 30), Rate: decimal.NewFromFloat(0.010)},
	}, decimal.NewFromFloat(0.015))
	require.NoError(t, err)
	return curve
}

func TestRateCurve_RateAt(t *testing.T) {
	curve := testCurve(t)
	tests := []struct {
		name     string
		date     time.Time
		expected float64
	}{
		{"exact first point", day(2026, 3, 31), 0.045},
		{"between points uses earlier", day(2026, 5, 15), 0.045},
		{"exact later point", day(2026, 6, 30), 0.040},
		{"floor applies", day(2026, 10, 31), 0.015},
		{"far future holds last point", day(2030, 1, 1), 0.015},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := curve.RateAt(tt.date)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got.InexactFloat64(), 1e-12)
		})
	}
	assert.Equal(t, 3, curve.Len())
	assert.True(t, curve.Floor().Equal(decimal.NewFromFloat(0.015)))
}

func TestRateCurve_BeforeFirstPoint(t *testing.T) {
	curve := testCurve(t)
	_, err := curve.RateAt(day(2026, 3, 30))
	require.Error(t, err)

	var lookup *domain.LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, day(2026, 3, 31), lookup.Earliest)
	assert.ErrorIs(t, err, domain.ErrLookup)
}

func TestNewRateCurve_Invalid(t *testing.T) {
	_, err := NewRateCurve(nil, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = NewRateCurve([]domain.RatePoint{
		{Date: day(2026, 3, 31), Rate: decimal.NewFromFloat(0.04)},
		{Date: day(2026, 3, 31), Rate: decimal.NewFromFloat(0.05)},
	}, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

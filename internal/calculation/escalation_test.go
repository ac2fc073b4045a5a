package calculation

import (
	"math"
	"testing"

	"github.com/rpgo/cre-proforma/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRentEscalation(t *testing.T) {
	rate := decimal.NewFromFloat(0.025)
	tests := []struct {
		name     string
		period   int
		expected float64
	}{
		{"period zero", 0, 1},
		{"first month", 1, 1 + 0.025/12},
		{"one year", 12, math.Pow(1+0.025/12, 12)},
		{"month 25", 25, math.Pow(1+0.025/12, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RentEscalation(rate, tt.period)
			assert.InDelta(t, tt.expected, got.InexactFloat64(), 1e-12)
		})
	}
}

func TestExpenseEscalation(t *testing.T) {
	rate := decimal.NewFromFloat(0.03)

	assert.True(t, ExpenseEscalation(rate, 0).Equal(decimal.NewFromInt(1)))
	assert.True(t, ExpenseEscalation(rate, 12).Equal(decimal.NewFromFloat(1.03)), "whole year must equal 1 + r exactly")
	assert.True(t, ExpenseEscalation(rate, 24).Equal(decimal.RequireFromString("1.0609")))
	assert.InDelta(t, math.Pow(1.03, 0.5), ExpenseEscalation(rate, 6).InexactFloat64(), 1e-12)
}

func TestEscalationZeroRate(t *testing.T) {
	for _, p := range []int{0, 1, 13, 120} {
		assert.True(t, RentEscalation(decimal.Zero, p).Equal(decimal.NewFromInt(1)))
		assert.True(t, ExpenseEscalation(decimal.Zero, p).Equal(decimal.NewFromInt(1)))
		assert.True(t, PropertyTaxEscalation(decimal.Zero, p, domain.EscalationStepped).Equal(decimal.NewFromInt(1)))
	}
}

func TestPropertyTaxEscalation(t *testing.T) {
	rate := decimal.NewFromFloat(0.02)
	tests := []struct {
		name     string
		period   int
		mode     domain.EscalationMode
		expected string
	}{
		{"stepped month 1", 1, domain.EscalationStepped, "1"},
		{"stepped month 12", 12, domain.EscalationStepped, "1"},
		{"stepped month 13 steps up", 13, domain.EscalationStepped, "1.02"},
		{"stepped month 24 holds", 24, domain.EscalationStepped, "1.02"},
		{"stepped month 25", 25, domain.EscalationStepped, "1.0404"},
		{"continuous month 12", 12, domain.EscalationContinuous, "1.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PropertyTaxEscalation(rate, tt.period, tt.mode)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestEscalate(t *testing.T) {
	got := Escalate(decimal.NewFromInt(1000), decimal.NewFromFloat(1.03))
	assert.True(t, got.Equal(decimal.NewFromInt(1030)))
}

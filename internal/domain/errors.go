package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Error kinds raised by the projection engine. Typed errors below unwrap to one of these.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrLookup        = errors.New("lookup error")
	ErrConvergence   = errors.New("convergence error")
	ErrArithmetic    = errors.New("arithmetic error")
)

// ConfigurationError reports an invalid input assumption detected before a projection runs.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError builds a ConfigurationError with a formatted reason.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LookupError is returned when a rate curve is queried before its first point.
type LookupError struct {
	Date     time.Time
	Earliest time.Time
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup error: no curve point at or before %s (earliest %s)",
		e.Date.Format("2006-01-02"), e.Earliest.Format("2006-01-02"))
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// ConvergenceError carries the series a root finder failed on.
type ConvergenceError struct {
	Method    string
	Reason    string
	CashFlows []float64
}

func (e *ConvergenceError) Error() string {
	parts := make([]string, 0, len(e.CashFlows))
	for i, cf := range e.CashFlows {
		if i == 8 {
			parts = append(parts, fmt.Sprintf("... (%d values)", len(e.CashFlows)))
			break
		}
		parts = append(parts, fmt.Sprintf("%.2f", cf))
	}
	return fmt.Sprintf("convergence error: %s: %s [%s]", e.Method, e.Reason, strings.Join(parts, ", "))
}

func (e *ConvergenceError) Unwrap() error { return ErrConvergence }

// ArithmeticError replaces silent infinities, e.g. a zero exit cap rate.
type ArithmeticError struct {
	Op     string
	Reason string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error: %s: %s", e.Op, e.Reason)
}

func (e *ArithmeticError) Unwrap() error { return ErrArithmetic }

// SafeDiv divides a by b, failing with an ArithmeticError when b is zero.
func SafeDiv(op string, a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, &ArithmeticError{Op: op, Reason: "division by zero"}
	}
	return a.Div(b), nil
}

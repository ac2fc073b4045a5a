package output

import (
	"strconv"
	"strings"

	money "github.com/rpgo/cre-proforma/pkg/decimal"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD with thousands separators; negatives are parenthesised.
func FormatCurrency(amount decimal.Decimal) string {
	s := money.NewMoneyFromDecimal(amount).Format()
	return groupDigits(s)
}

// FormatAmount renders an amount in dollars or, when thousands is set, in $000s
func FormatAmount(amount decimal.Decimal, thousands bool) string {
	if thousands {
		return FormatCurrency(money.NewMoneyFromDecimal(amount).Thousands().Decimal)
	}
	return FormatCurrency(amount)
}

// FormatPlain renders an amount for CSV: no symbol, no separators.
func FormatPlain(amount decimal.Decimal, thousands bool) string {
	if thousands {
		return money.NewMoneyFromDecimal(amount).Thousands().String()
	}
	return amount.StringFixed(2)
}

// FormatPercentage formats a rate (0.0525) as a percentage with 2 decimals ("5.25%").
func FormatPercentage(rate decimal.Decimal) string { return rate.Mul(hundred).StringFixed(2) + "%" }

// FormatMultiple formats an equity multiple ("1.85x").
func FormatMultiple(m decimal.Decimal) string { return m.StringFixed(2) + "x" }

func groupDigits(s string) string {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return s
	}
	end := strings.IndexByte(s[start:], '.')
	if end < 0 {
		end = len(s) - start
	}
	intPart := s[start : start+end]
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return s[:start] + b.String() + s[start+end:]
}

func intToString(i int) string { return strconv.Itoa(i) }

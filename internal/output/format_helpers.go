package output

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money converts an engine value for display.
func Money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// FormatCurrency formats a decimal as whole US dollars with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.Round(0).Abs().StringFixed(0)
	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCurrencyFloat is FormatCurrency for engine values.
func FormatCurrencyFloat(v float64) string { return FormatCurrency(Money(v)) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatCompact abbreviates large amounts ($1.2M, $350K) for charts and bins.
func FormatCompact(v float64) string {
	d := Money(v)
	abs := d.Abs()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return sign + "$" + abs.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return sign + "$" + abs.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return sign + "$" + abs.Div(decimal.NewFromInt(1_000)).StringFixed(0) + "K"
	default:
		return sign + "$" + abs.StringFixed(0)
	}
}

// AccountLabel returns the display label of an account, falling back to its key.
func AccountLabel(key, label string) string {
	if label != "" {
		return label
	}
	return key
}

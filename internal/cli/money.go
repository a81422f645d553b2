package cli

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals and thousands separators,
// rounding half away from zero.
func FormatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatSigned renders amount with an explicit sign, colored green for
// positive and red for negative.
func FormatSigned(amount float64) string {
	s := FormatMoney(amount)
	switch {
	case amount > 0:
		return SuccessStyle.Render("+" + s)
	case amount < 0:
		return ErrorStyle.Render(s)
	default:
		return s
	}
}

// FormatPercent renders a 0-100 percentage with one decimal.
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).Round(1).StringFixed(1) + "%"
}

// ParseMoney parses a user-entered amount. Thousands separators and
// surrounding spaces are accepted.
func ParseMoney(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

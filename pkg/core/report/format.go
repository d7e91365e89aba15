// Package report renders the engine output into LP, GP, and Lender report
// documents: markdown source, HTML, and spreadsheet workbooks.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Dollars formats a currency amount with thousands separators and no
// decimals: 1234567.89 -> "$1,234,568". Decimal arithmetic keeps large
// figures from picking up float artifacts during rounding.
func Dollars(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	neg := d.IsNegative()
	s := d.Abs().String()

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// Pct formats a percentage already expressed in percent units.
func Pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// PctPtr renders a percentage from a fractional IRR pointer, or N/A.
func PctPtr(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

// Multiple formats an equity multiple or coverage ratio: 1.25 -> "1.25x".
func Multiple(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

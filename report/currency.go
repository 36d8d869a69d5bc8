package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency symbol used when none is configured.
const DefaultSymbol = "₦"

// Currency formats money amounts for display.
type Currency struct {
	Symbol string
}

// NewCurrency returns a Currency for symbol, falling back to DefaultSymbol.
func NewCurrency(symbol string) Currency {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Currency{Symbol: symbol}
}

// Format renders d with thousands separators and two fraction digits, e.g.
// "₦1,200.50". Negative amounts get a leading minus before the symbol.
func (c Currency) Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + c.Symbol + Grouped(d)
}

// Grouped renders d with thousands separators and two fraction digits. The
// digits come from the exact decimal, so large amounts print without loss.
func Grouped(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

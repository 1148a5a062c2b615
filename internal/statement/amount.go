package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a number in the profile's style.
// "R$ 1.234,56" -> 1234.56, "-588,74" -> -588.74, "1234.56" -> 1234.56.
func parseAmount(s string, style decimalStyle) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	clean = strings.ReplaceAll(clean, " ", "")

	if style == decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}

package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL valor em reais: "R$ 1.250,50"
func FormatBRL(value decimal.Decimal) string {
	s := value.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

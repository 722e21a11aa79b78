package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

var (
	nonMoneyCharsRe = regexp.MustCompile(`[^0-9,.\-]`)
	leadingNumberRe = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)`)
)

// ParseMoney converte célula em valor monetário
// Números passam direto se finitos. Texto: remove moeda, espaços e símbolos;
// com vírgula e ponto juntos, ponto é milhar e a última vírgula é decimal
// ("1.234,56"); só vírgula, a primeira é decimal ("1234,56"); senão literal
// decimal padrão.
func (e *Engine) ParseMoney(c model.Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case model.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(c.Number), true
	case model.CellText:
		return e.parseMoneyText(c.Text)
	default:
		return decimal.Zero, false
	}
}

func (e *Engine) parseMoneyText(raw string) (decimal.Decimal, bool) {
	txt := strings.TrimSpace(raw)
	if txt == "" {
		return decimal.Zero, false
	}

	cleaned := txt
	if e.re.currency != nil {
		cleaned = e.re.currency.ReplaceAllString(cleaned, "")
	}
	cleaned = whitespaceRe.ReplaceAllString(cleaned, "")
	cleaned = nonMoneyCharsRe.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return decimal.Zero, false
	}

	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		// "1.234,56": pontos saem, a última vírgula vira ponto
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		i := strings.LastIndex(cleaned, ",")
		cleaned = cleaned[:i] + "." + cleaned[i+1:]
	case strings.Contains(cleaned, ","):
		// só a primeira vírgula vira ponto; "1,234,56" -> 1.234
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	return parseLeadingDecimal(cleaned)
}

// parseLeadingDecimal lê o maior literal decimal no início da string
// "12.5,3" -> 12.5; "-" -> falha
func parseLeadingDecimal(s string) (decimal.Decimal, bool) {
	lit := leadingNumberRe.FindString(s)
	if lit == "" {
		return decimal.Zero, false
	}
	lit = strings.TrimSuffix(lit, ".")
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// positiveMoney valor > 0
func (e *Engine) positiveMoney(c model.Cell) (decimal.Decimal, bool) {
	d, ok := e.ParseMoney(c)
	if !ok || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

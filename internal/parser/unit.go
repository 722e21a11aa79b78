package parser

import "github.com/danielacalcdecampo/agrocota/internal/model"

// InferUnit rótulo da unidade do preço ("R$/ha", "R$/kg", ...)
// Usa o cabeçalho da coluna que de fato forneceu o preço nesta linha;
// sem correspondência, usa o texto da coluna de unidade, senão o padrão.
func (e *Engine) InferUnit(priceHeader string, row model.Row, unitCol int) string {
	h := Normalize(priceHeader)
	for _, u := range e.re.units {
		if u.re.MatchString(h) {
			return e.opts.Currency + u.suffix
		}
	}

	if unitCol != NoColumn {
		if v := cellText(row, unitCol); v != "" {
			return v
		}
	}
	return e.opts.Currency + e.rules.DefaultUnit
}

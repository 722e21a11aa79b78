package parser

import (
	"strings"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

// LocateHeader encontra a linha de cabeçalho da aba
// Varre no máximo MaxHeaderScan linhas; pontuação por linha não vazia:
//
//	5 × células com palavra-chave de cabeçalho
//	+ células que não são valor monetário
//	+ min(12, células preenchidas)
//
// Vence a maior pontuação; empate fica com a primeira linha.
// ok=false quando nenhuma linha varrida tem conteúdo.
func (e *Engine) LocateHeader(rows []model.Row) (HeaderAssignment, bool) {
	limit := min(len(rows), e.opts.MaxHeaderScan)

	bestIndex := 0
	bestScore := -1
	for ri := 0; ri < limit; ri++ {
		score, ok := e.headerScore(rows[ri])
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestIndex = ri
		}
	}
	if bestScore < 0 {
		return HeaderAssignment{}, false
	}

	row := rows[bestIndex]
	headers := make([]string, len(row))
	for i := range row {
		headers[i] = cellText(row, i)
	}
	return HeaderAssignment{HeaderRowIndex: bestIndex, Headers: headers}, true
}

// headerScore pontuação de uma linha; ok=false para linha vazia
func (e *Engine) headerScore(row model.Row) (int, bool) {
	hits, textish, filled := 0, 0, 0
	for _, c := range row {
		v := strings.TrimSpace(c.String())
		if v == "" {
			continue
		}
		filled++
		if e.rules.HeaderKeywords.Match(Normalize(v)) {
			hits++
		}
		if _, ok := e.ParseMoney(c); !ok {
			textish++
		}
	}
	if filled == 0 {
		return 0, false
	}
	return hits*5 + textish + min(filled, 12), true
}

// DataRows linhas após o cabeçalho com ao menos uma célula preenchida
func DataRows(rows []model.Row, headerRowIndex int) []model.Row {
	if headerRowIndex+1 >= len(rows) {
		return nil
	}
	out := make([]model.Row, 0, len(rows)-headerRowIndex-1)
	for _, r := range rows[headerRowIndex+1:] {
		if !r.IsBlank() {
			out = append(out, r)
		}
	}
	return out
}

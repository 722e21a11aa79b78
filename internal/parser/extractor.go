package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

// ExtractStats contagem de linhas descartadas por motivo
type ExtractStats struct {
	Accepted int
	Noise    int
	NoPrice  int
}

// ExtractItems transforma as linhas de dados de uma aba em itens validados
// Cada linha é aceita por inteiro ou descartada; a ordem das linhas é preservada.
func (e *Engine) ExtractItems(sheetName string, headers []string, rows []model.Row, roles ColumnRoles) ([]model.ItemRow, ExtractStats) {
	var stats ExtractStats

	nh := NormalizeHeaders(headers)
	candidates := e.priceCandidates(nh, rows, roles)
	volumeCol := auxColumn(nh, e.rules.PackageSize)
	purposeCol := auxColumn(nh, e.rules.Purpose)

	items := make([]model.ItemRow, 0, len(rows))
	for _, row := range rows {
		base := cellText(row, roles.Product)
		if e.IsNoise(base) {
			stats.Noise++
			continue
		}

		valor, usedCol, ok := e.firstPrice(row, candidates)
		if !ok {
			stats.NoPrice++
			continue
		}

		items = append(items, model.ItemRow{
			Produto:    composeLabel(base, cellText(row, volumeCol), cellText(row, purposeCol)),
			Fornecedor: cellText(row, roles.Supplier),
			Categoria:  e.category(row, roles.Category, sheetName),
			Valor:      valor,
			Dose:       cellText(row, roles.Dose),
			Unidade:    e.InferUnit(headerAt(headers, usedCol), row, roles.Unit),
		})
		stats.Accepted++
	}
	return items, stats
}

// priceCandidates colunas testadas como preço, em ordem:
// coluna de preço resolvida, colunas com palavra de preço no cabeçalho
// (fora produto/fornecedor/categoria), colunas com >= MinNumericHits
// valores positivos nas primeiras CandidateSampleRows linhas.
func (e *Engine) priceCandidates(nh []string, rows []model.Row, roles ColumnRoles) []int {
	text := roles.textColumns()
	out := []int{roles.Price}

	for i, h := range nh {
		if containsInt(out, i) || containsInt(text, i) {
			continue
		}
		if e.rules.PriceWords.Match(h) {
			out = append(out, i)
		}
	}

	sample := headRows(rows, e.opts.CandidateSampleRows)
	for i := range nh {
		if containsInt(out, i) || containsInt(text, i) {
			continue
		}
		if e.positiveHits(sample, i) >= e.opts.MinNumericHits {
			out = append(out, i)
		}
	}
	return out
}

// firstPrice primeiro candidato com valor > 0
func (e *Engine) firstPrice(row model.Row, candidates []int) (decimal.Decimal, int, bool) {
	for _, ci := range candidates {
		if d, ok := e.positiveMoney(row.At(ci)); ok {
			return d, ci, true
		}
	}
	return decimal.Zero, NoColumn, false
}

func (e *Engine) category(row model.Row, col int, sheetName string) string {
	c := cellText(row, col)
	if c == "" {
		c = strings.TrimSpace(sheetName)
	}
	if c == "" {
		c = e.opts.DefaultCategory
	}
	return TitleCase(c)
}

// auxColumn primeira coluna auxiliar (embalagem, finalidade) pelo cabeçalho
// A coluna pode já ter outro papel: "Finalidade" vale como categoria e
// finalidade, "Dose kg/ha" como dose e embalagem.
func auxColumn(nh []string, kw Keywords) int {
	for i, h := range nh {
		if kw.Match(h) {
			return i
		}
	}
	return NoColumn
}

// composeLabel "Produto [volume] - finalidade"
func composeLabel(base, volume, purpose string) string {
	parts := []string{base}
	if volume != "" {
		parts = append(parts, "["+volume+"]")
	}
	if purpose != "" {
		parts = append(parts, "- "+purpose)
	}
	return strings.Join(parts, " ")
}

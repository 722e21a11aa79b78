package parser

import (
	"github.com/danielacalcdecampo/agrocota/internal/model"
)

// DetectColumns atribui papéis às colunas a partir dos cabeçalhos e de uma amostra de dados
//
// Ordem de resolução:
//   - produto: primeira coluna nomeada (sem dose/preço/total); senão primeira
//     coluna com texto na amostra; senão coluna 0
//   - fornecedor, categoria, dose, unidade: primeira coluna nomeada, ou NoColumn
//   - preço: níveis de PriceTiers em ordem; senão primeira coluna (≠ produto)
//     com MinNumericHits valores monetários > 0 na amostra; senão DefaultPriceColumn
//
// A mesma coluna pode receber mais de um papel; cada papel vence pela primeira
// coluna que casar.
func (e *Engine) DetectColumns(headers []string, sample []model.Row) ColumnRoles {
	nh := NormalizeHeaders(headers)

	roles := ColumnRoles{
		Product:  e.detectProduct(nh, sample),
		Supplier: firstColumn(nh, e.rules.Supplier),
		Category: firstColumn(nh, e.rules.Category),
		Dose:     firstColumn(nh, e.rules.Dose),
		Unit:     firstColumn(nh, e.rules.Unit),
	}
	roles.Price = e.detectPrice(nh, sample, roles.Product)
	return roles
}

func (e *Engine) detectProduct(nh []string, sample []model.Row) int {
	if idx := firstColumn(nh, e.rules.Product); idx != NoColumn {
		return idx
	}

	// coluna com texto (não numérico) nos dados
	rows := headRows(sample, e.opts.RoleSampleRows)
	for ci := range nh {
		for _, r := range rows {
			v := cellText(r, ci)
			if v != "" && !isPlainNumber(v) {
				return ci
			}
		}
	}
	return 0
}

func (e *Engine) detectPrice(nh []string, sample []model.Row, product int) int {
	for _, tier := range e.rules.PriceTiers {
		if idx := firstColumn(nh, []HeaderRule{tier}); idx != NoColumn {
			return idx
		}
	}

	// primeira coluna numérica diferente de produto
	rows := headRows(sample, e.opts.RoleSampleRows)
	for ci := range nh {
		if ci == product {
			continue
		}
		if e.positiveHits(rows, ci) >= e.opts.MinNumericHits {
			return ci
		}
	}
	return e.opts.DefaultPriceColumn
}

// positiveHits quantas linhas têm valor monetário > 0 na coluna
func (e *Engine) positiveHits(rows []model.Row, col int) int {
	hits := 0
	for _, r := range rows {
		if _, ok := e.positiveMoney(r.At(col)); ok {
			hits++
		}
	}
	return hits
}

func headRows(rows []model.Row, n int) []model.Row {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

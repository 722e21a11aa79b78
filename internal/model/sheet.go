package model

import (
	"strconv"
	"strings"
)

// CellKind tipo de valor bruto de uma célula
type CellKind int

const (
	CellEmpty  CellKind = iota // vazia
	CellText                   // texto
	CellNumber                 // número
)

// Cell valor bruto de uma célula (texto, número ou vazio)
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell cria célula de texto; texto em branco vira célula vazia
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell cria célula numérica
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// IsEmpty indica célula sem conteúdo
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && strings.TrimSpace(c.Text) == "")
}

// String texto da célula (números na forma decimal mais curta)
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Row linha da planilha
type Row []Cell

// At célula da coluna idx; fora do intervalo devolve célula vazia
func (r Row) At(idx int) Cell {
	if idx < 0 || idx >= len(r) {
		return Cell{}
	}
	return r[idx]
}

// IsBlank indica linha sem nenhuma célula preenchida
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// RawSheet aba decodificada: nome + matriz de células
type RawSheet struct {
	Name string `json:"name"`
	Rows []Row  `json:"-"`
}

// Workbook pasta de trabalho decodificada (abas em ordem)
type Workbook struct {
	Filename string     `json:"filename"`
	Sheets   []RawSheet `json:"sheets"`
}

// TextRows atalho para montar linhas de texto (útil em testes e no leitor CSV)
func TextRows(rows ...[]string) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, len(r))
		for j, v := range r {
			row[j] = TextCell(v)
		}
		out[i] = row
	}
	return out
}

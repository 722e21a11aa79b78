package excel

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

const (
	comparisonSheet = "Comparativo"
	summarySheet    = "Resumo"
)

// Exporter exportador do comparativo de preços
type Exporter struct{}

// NewExporter cria o exportador
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export monta a pasta de trabalho do comparativo
func (e *Exporter) Export(rep *model.ComparisonReport) (*excelize.File, error) {
	if rep == nil {
		return nil, errors.New("report is nil")
	}
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", comparisonSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		f.Close()
		return nil, err
	}

	// uma linha por oferta
	headers := []any{"Categoria", "Produto", "Fornecedor", "Valor/ha", "Mais barato"}
	if err := f.SetSheetRow(comparisonSheet, "A1", &headers); err != nil {
		f.Close()
		return nil, err
	}
	f.SetRowStyle(comparisonSheet, 1, 1, headerStyle)

	row := 2
	for _, cat := range rep.Categories {
		for _, g := range cat.Groups {
			for i, opt := range g.Options {
				cheapest := "não"
				if i == 0 {
					cheapest = "sim"
				}
				values := []any{cat.Category, g.Product, opt.Supplier, opt.ValuePerHa.InexactFloat64(), cheapest}
				if err := f.SetSheetRow(comparisonSheet, fmt.Sprintf("A%d", row), &values); err != nil {
					f.Close()
					return nil, err
				}
				row++
			}
		}
	}
	if row > 2 {
		f.SetCellStyle(comparisonSheet, "D2", fmt.Sprintf("D%d", row-1), moneyStyle)
	}
	f.SetColWidth(comparisonSheet, "A", "C", 28)
	f.SetColWidth(comparisonSheet, "D", "E", 14)

	// Resumo por categoria
	f.NewSheet(summarySheet)
	summaryHeaders := []any{"Categoria", "Produtos", "Cotações", "Soma mínima", "Soma máxima"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		f.Close()
		return nil, err
	}
	f.SetRowStyle(summarySheet, 1, 1, headerStyle)

	row = 2
	for _, cat := range rep.Categories {
		values := []any{cat.Category, cat.ProductCount, cat.OptionCount, cat.MinTotal.InexactFloat64(), cat.MaxTotal.InexactFloat64()}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}
	totals := []any{"Total", nil, nil, rep.TotalMin.InexactFloat64(), rep.TotalMax.InexactFloat64()}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		f.Close()
		return nil, err
	}
	savings := []any{"Economia potencial", nil, nil, rep.PotentialSavings.InexactFloat64()}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row+1), &savings); err != nil {
		f.Close()
		return nil, err
	}
	f.SetCellStyle(summarySheet, "D2", fmt.Sprintf("E%d", row+1), moneyStyle)
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "E", 14)

	f.SetActiveSheet(0)
	return f, nil
}

// WriteComparison grava o comparativo em w como .xlsx
func (e *Exporter) WriteComparison(w io.Writer, rep *model.ComparisonReport) error {
	f, err := e.Export(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

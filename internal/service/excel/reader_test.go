package excel_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/service/excel"
)

func TestReadXLSX_KeepsCellKinds(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	wb.SetSheetName("Sheet1", "Sementes")
	wb.NewSheet("Defensivos")
	header := []any{"Produto", "Fornecedor", "Valor/ha"}
	row := []any{"Soja BMX Zeus", "Agro Sul", 450.5}
	textPrice := []any{"Milho AG 8088", "Coop Norte", "1.234,56"}
	if err := wb.SetSheetRow("Sementes", "A1", &header); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}
	if err := wb.SetSheetRow("Sementes", "A2", &row); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}
	if err := wb.SetSheetRow("Sementes", "A3", &textPrice); err != nil {
		t.Fatalf("SetSheetRow failed: %v", err)
	}

	got, err := excel.NewReader(excel.ReaderOptions{}).Read("cotacao.xlsx", workbookBytes(t, wb))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Filename != "cotacao.xlsx" {
		t.Fatalf("Filename=%q", got.Filename)
	}
	if len(got.Sheets) != 2 || got.Sheets[0].Name != "Sementes" || got.Sheets[1].Name != "Defensivos" {
		t.Fatalf("unexpected sheets: %+v", got.Sheets)
	}

	rows := got.Sheets[0].Rows
	if len(rows) != 3 {
		t.Fatalf("rows=%d, want 3", len(rows))
	}
	if c := rows[1].At(2); c.Kind != model.CellNumber || c.Number != 450.5 {
		t.Fatalf("numeric cell=%+v", c)
	}
	if c := rows[2].At(2); c.Kind != model.CellText || c.Text != "1.234,56" {
		t.Fatalf("text cell=%+v", c)
	}
	if c := rows[1].At(0); c.Kind != model.CellText || c.Text != "Soja BMX Zeus" {
		t.Fatalf("product cell=%+v", c)
	}
	if len(got.Sheets[1].Rows) != 0 {
		t.Fatalf("empty sheet should have no rows")
	}
}

func TestReadXLSX_FillMergedCells(t *testing.T) {
	t.Parallel()

	wb := excelize.NewFile()
	wb.SetCellValue("Sheet1", "A1", "Produto")
	wb.SetCellValue("Sheet1", "B1", "Categoria")
	wb.SetCellValue("Sheet1", "A2", "Glifosato")
	wb.SetCellValue("Sheet1", "A3", "Atrazina")
	wb.SetCellValue("Sheet1", "B2", "Herbicida")
	if err := wb.MergeCell("Sheet1", "B2", "B3"); err != nil {
		t.Fatalf("MergeCell failed: %v", err)
	}
	data := workbookBytes(t, wb)

	plain, err := excel.NewReader(excel.ReaderOptions{}).Read("a.xlsx", data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !plain.Sheets[0].Rows[2].At(1).IsEmpty() {
		t.Fatalf("merged cell should stay empty without fill")
	}

	filled, err := excel.NewReader(excel.ReaderOptions{FillMergedCells: true}).Read("a.xlsx", data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := filled.Sheets[0].Rows[2].At(1).String(); got != "Herbicida" {
		t.Fatalf("filled merged cell=%q", got)
	}
}

func TestReadCSV_SemicolonAndBOM(t *testing.T) {
	t.Parallel()

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Produto;Fornecedor;Valor/ha\nSoja;Agro Sul;450,00\n")...)
	got, err := excel.NewReader(excel.ReaderOptions{}).Read("cotacao.CSV", data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got.Sheets) != 1 || got.Sheets[0].Name != excel.CSVSheetName {
		t.Fatalf("unexpected sheets: %+v", got.Sheets)
	}
	rows := got.Sheets[0].Rows
	if rows[0].At(0).Text != "Produto" {
		t.Fatalf("BOM not stripped: %q", rows[0].At(0).Text)
	}
	if rows[1].At(2).Text != "450,00" {
		t.Fatalf("unexpected price cell: %+v", rows[1].At(2))
	}
}

func TestReadCSV_Windows1252(t *testing.T) {
	t.Parallel()

	src := "Produto,Preço\nAdubo Fosfatado,\"1.200,00\"\n"
	data, err := charmap.Windows1252.NewEncoder().Bytes([]byte(src))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := excel.NewReader(excel.ReaderOptions{}).Read("a.csv", data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	rows := got.Sheets[0].Rows
	if rows[0].At(1).Text != "Preço" {
		t.Fatalf("header=%q, want Preço", rows[0].At(1).Text)
	}
	if rows[1].At(1).Text != "1.200,00" {
		t.Fatalf("quoted field=%q", rows[1].At(1).Text)
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := excel.NewReader(excel.ReaderOptions{}).Read("cotacao.pdf", []byte("%PDF"))
	if !errors.Is(err, excel.ErrUnsupportedFormat) {
		t.Fatalf("err=%v, want ErrUnsupportedFormat", err)
	}
}

func TestRead_CorruptXLSX(t *testing.T) {
	t.Parallel()

	if _, err := excel.NewReader(excel.ReaderOptions{}).Read("a.xlsx", []byte("not a zip")); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func workbookBytes(t *testing.T, wb *excelize.File) []byte {
	t.Helper()

	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	return buf.Bytes()
}

package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

var (
	// ErrUnsupportedFormat extensão não suportada
	ErrUnsupportedFormat = errors.New("formato de arquivo não suportado (use .xlsx ou .csv)")
	// ErrEmptyWorkbook arquivo sem nenhuma aba
	ErrEmptyWorkbook = errors.New("o arquivo selecionado não contém dados")
)

// CSVSheetName nome da aba única gerada a partir de CSV
const CSVSheetName = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReaderOptions opções de leitura
type ReaderOptions struct {
	// FillMergedCells copia o valor da célula mesclada para todo o intervalo
	FillMergedCells bool
}

// Reader decodifica planilhas (.xlsx/.xlsm/.csv) em model.Workbook
type Reader struct {
	opts ReaderOptions
}

// NewReader cria o leitor
func NewReader(opts ReaderOptions) *Reader {
	return &Reader{opts: opts}
}

// ReadFile lê do disco
func (r *Reader) ReadFile(path string) (*model.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r.Read(filepath.Base(path), data)
}

// Read decodifica o conteúdo pelo tipo da extensão
func (r *Reader) Read(filename string, data []byte) (*model.Workbook, error) {
	var (
		wb  *model.Workbook
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		wb, err = r.readXLSX(data)
	case ".csv":
		wb, err = r.readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	wb.Filename = filename
	return wb, nil
}

func (r *Reader) readXLSX(data []byte) (*model.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	wb := &model.Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := r.sheetRows(f, name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, model.RawSheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// sheetRows valores brutos: números continuam números, texto continua texto
func (r *Reader) sheetRows(f *excelize.File, sheet string) ([]model.Row, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([]model.Row, len(raw))
	for ri, values := range raw {
		row := make(model.Row, len(values))
		for ci, v := range values {
			if strings.TrimSpace(v) == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(ci+1, ri+1)
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, err
			}
			row[ci] = typedCell(typ, v)
		}
		rows[ri] = row
	}

	if r.opts.FillMergedCells {
		if err := fillMerged(f, sheet, rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// typedCell células sem tipo explícito ou numéricas que parseiam viram número
func typedCell(typ excelize.CellType, v string) model.Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return model.TextCell(v)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return model.NumberCell(f)
	}
	return model.TextCell(v)
}

// fillMerged propaga a célula superior esquerda de cada intervalo mesclado
func fillMerged(f *excelize.File, sheet string, rows []model.Row) error {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		startCol--
		startRow--
		endCol--
		endRow--
		if startRow >= len(rows) {
			continue
		}
		val := rows[startRow].At(startCol)
		if val.IsEmpty() {
			continue
		}
		for ri := startRow; ri <= endRow && ri < len(rows); ri++ {
			for len(rows[ri]) <= endCol {
				rows[ri] = append(rows[ri], model.Cell{})
			}
			for ci := startCol; ci <= endCol; ci++ {
				rows[ri][ci] = val
			}
		}
	}
	return nil
}

func (r *Reader) readCSV(data []byte) (*model.Workbook, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		// planilhas exportadas pelo Excel em português costumam vir em cp1252
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return &model.Workbook{Sheets: []model.RawSheet{{
		Name: CSVSheetName,
		Rows: model.TextRows(records...),
	}}}, nil
}

// sniffDelimiter escolhe ';', ',' ou tab pela primeira linha
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

package parser

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

// Motivos de aba ignorada
const (
	SkipEmptySheet = "aba vazia"
	SkipNoDataRows = "sem linhas de dados"
	SkipNoItems    = "nenhum item válido"
)

// IngestSheet processa uma aba: cabeçalho, papéis e extração
// Aba sem cabeçalho ou sem itens devolve lista vazia e SkipReason preenchido.
func (e *Engine) IngestSheet(sheet model.RawSheet) ([]model.ItemRow, model.SheetReport) {
	report := model.SheetReport{SheetName: sheet.Name, HeaderRowIndex: NoColumn}

	header, ok := e.LocateHeader(sheet.Rows)
	if !ok || len(header.Headers) == 0 {
		report.SkipReason = SkipEmptySheet
		return nil, report
	}
	report.HeaderRowIndex = header.HeaderRowIndex
	report.Headers = header.Headers

	rows := DataRows(sheet.Rows, header.HeaderRowIndex)
	report.DataRows = len(rows)
	if len(rows) == 0 {
		report.SkipReason = SkipNoDataRows
		return nil, report
	}

	roles := e.DetectColumns(header.Headers, rows)
	report.Roles = roles.Map()

	items, stats := e.ExtractItems(sheet.Name, header.Headers, rows, roles)
	report.Accepted = stats.Accepted
	report.NoiseRows = stats.Noise
	report.NoPriceRows = stats.NoPrice
	if len(items) == 0 {
		report.SkipReason = SkipNoItems
	}
	return items, report
}

type sheetOutcome struct {
	items  []model.ItemRow
	report model.SheetReport
}

// Ingest processa todas as abas e consolida os itens na ordem das abas
// Com Workers > 1 as abas rodam em paralelo; o resultado é o mesmo.
// Sem nenhum item válido devolve o resultado com Failure e ErrNoValidItems.
func (e *Engine) Ingest(ctx context.Context, wb *model.Workbook) (*model.IngestionResult, error) {
	outcomes := make([]sheetOutcome, len(wb.Sheets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, sheet := range wb.Sheets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, report := e.IngestSheet(sheet)
			outcomes[i] = sheetOutcome{items: items, report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &model.IngestionResult{
		Items:  make([]model.ItemRow, 0),
		Sheets: make([]model.SheetReport, 0, len(outcomes)),
	}
	sheetCounts := newCounter()
	catCounts := newCounter()
	for _, o := range outcomes {
		result.Items = append(result.Items, o.items...)
		result.Sheets = append(result.Sheets, o.report)
		if len(o.items) > 0 {
			sheetCounts.add(o.report.SheetName, len(o.items))
		}
		for _, it := range o.items {
			cat := it.Categoria
			if cat == "" {
				cat = e.opts.DefaultCategory
			}
			catCounts.add(cat, 1)
		}
	}
	result.SheetSummary = sheetCounts.summary()
	result.CategorySummary = catCounts.summary()

	if len(result.Items) == 0 {
		result.Failure = ErrNoValidItems.Error()
		return result, ErrNoValidItems
	}
	return result, nil
}

// counter contagem preservando a ordem de primeira ocorrência
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string, n int) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name] += n
}

// summary ordenado por contagem decrescente; empate mantém a primeira ocorrência
func (c *counter) summary() []model.SummaryEntry {
	out := make([]model.SummaryEntry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, model.SummaryEntry{Nome: name, Itens: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Itens > out[j].Itens
	})
	return out
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/parser"
	"github.com/danielacalcdecampo/agrocota/internal/service/excel"
	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
	"github.com/danielacalcdecampo/agrocota/internal/service/store"
)

// DefaultPreviewLimit linhas de resumo visíveis na prévia
const DefaultPreviewLimit = 4

// Coordinator coordena a importação: arquivo -> pasta de trabalho -> motor -> rascunho
type Coordinator struct {
	reader       *excel.Reader
	engine       *parser.Engine
	builder      *quotation.Builder
	store        *store.MemoryStore
	logger       *slog.Logger
	previewLimit int
}

// Options dependências opcionais
type Options struct {
	PreviewLimit int
	Logger       *slog.Logger
}

// NewCoordinator cria o coordenador
func NewCoordinator(reader *excel.Reader, engine *parser.Engine, builder *quotation.Builder, st *store.MemoryStore, opts Options) *Coordinator {
	if opts.PreviewLimit <= 0 {
		opts.PreviewLimit = DefaultPreviewLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Coordinator{
		reader:       reader,
		engine:       engine,
		builder:      builder,
		store:        st,
		logger:       opts.Logger,
		previewLimit: opts.PreviewLimit,
	}
}

// Preview prévia da importação exibida antes de salvar
type Preview struct {
	Filename         string                 `json:"filename"`
	Result           *model.IngestionResult `json:"result"`
	UniqueProducts   int                    `json:"uniqueProdutos"`
	UniqueSuppliers  int                    `json:"uniqueFornecedores"`
	UniqueCategories int                    `json:"uniqueCategorias"`
	// resumos truncados em PreviewLimit; listas completas em Result
	VisibleSheets     []model.SummaryEntry `json:"visibleSheetSummary"`
	VisibleCategories []model.SummaryEntry `json:"visibleCategorySummary"`
	HiddenSheets      int                  `json:"hiddenSheets"`
	HiddenCategories  int                  `json:"hiddenCategories"`
	Duration          time.Duration        `json:"duration"`
}

// Preview lê e processa o arquivo sem gravar nada
// Com ErrNoValidItems a prévia ainda é devolvida (com Failure preenchido).
func (c *Coordinator) Preview(ctx context.Context, filename string, data []byte) (*Preview, error) {
	start := time.Now()
	log := c.logger.With("filename", filename)

	wb, err := c.reader.Read(filename, data)
	if err != nil {
		log.Warn("failed to decode workbook", "err", err)
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	log.Debug("workbook decoded", "sheets", len(wb.Sheets))

	res, err := c.engine.Ingest(ctx, wb)
	if res != nil {
		c.logSheets(log, res.Sheets)
	}
	if err != nil && !errors.Is(err, parser.ErrNoValidItems) {
		return nil, err
	}

	p := c.buildPreview(filename, res)
	p.Duration = time.Since(start)
	if err != nil {
		log.Warn("no valid items", "sheets", len(wb.Sheets))
		return p, err
	}
	log.Info("workbook ingested",
		"items", len(res.Items),
		"sheets", len(res.SheetSummary),
		"categories", len(res.CategorySummary),
		"duration", p.Duration,
	)
	return p, nil
}

// Import processa o arquivo e grava a cotação em rascunho
// Nada é gravado quando a ingestão falha.
func (c *Coordinator) Import(ctx context.Context, filename string, data []byte, req quotation.Request) (*model.Quotation, *Preview, error) {
	p, err := c.Preview(ctx, filename, data)
	if err != nil {
		return nil, p, err
	}

	req.SourceFile = filename
	q, err := c.builder.Build(req, p.Result)
	if err != nil {
		return nil, p, err
	}
	if err := c.store.Save(q); err != nil {
		return nil, p, fmt.Errorf("save quotation: %w", err)
	}
	c.logger.Info("quotation saved", "id", q.ID, "items", len(q.Items), "filename", filename)
	return q, p, nil
}

func (c *Coordinator) logSheets(log *slog.Logger, sheets []model.SheetReport) {
	for _, s := range sheets {
		if s.SkipReason != "" {
			log.Debug("sheet skipped", "sheet", s.SheetName, "reason", s.SkipReason,
				"noise", s.NoiseRows, "no_price", s.NoPriceRows)
			continue
		}
		log.Debug("sheet ingested", "sheet", s.SheetName, "header_row", s.HeaderRowIndex,
			"roles", s.Roles, "items", s.Accepted, "noise", s.NoiseRows, "no_price", s.NoPriceRows)
	}
}

func (c *Coordinator) buildPreview(filename string, res *model.IngestionResult) *Preview {
	p := &Preview{Filename: filename, Result: res}

	products := make(map[string]struct{})
	suppliers := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, it := range res.Items {
		products[it.Produto] = struct{}{}
		suppliers[it.Fornecedor] = struct{}{}
		categories[it.Categoria] = struct{}{}
	}
	p.UniqueProducts = len(products)
	p.UniqueSuppliers = len(suppliers)
	p.UniqueCategories = len(categories)

	p.VisibleSheets, p.HiddenSheets = truncate(res.SheetSummary, c.previewLimit)
	p.VisibleCategories, p.HiddenCategories = truncate(res.CategorySummary, c.previewLimit)
	return p
}

func truncate(entries []model.SummaryEntry, limit int) ([]model.SummaryEntry, int) {
	if len(entries) <= limit {
		return entries, 0
	}
	return entries[:limit], len(entries) - limit
}

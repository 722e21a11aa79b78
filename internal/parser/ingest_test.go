package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

func seedsAndPesticidesWorkbook() *model.Workbook {
	return &model.Workbook{
		Filename: "cotacao.xlsx",
		Sheets: []model.RawSheet{
			{
				Name: "Sementes",
				Rows: []model.Row{
					row("Produto", "Fornecedor", "Categoria", "Valor/ha", "Dose"),
					row("Soja BMX Zeus", "Agro Sul", "sementes", "R$ 450,00", "60 kg"),
					row("Soja TMG 7062", "Coop Norte", "SEMENTES", "1.234,56", "55 kg"),
					row("Milho AG 8088", "Agro Sul", "sementes", 980.5, ""),
					row("Milho DKB 390", "Coop Norte", "", "1020", ""),
					row("TOTAL GERAL", "", "", "3685,06", ""),
				},
			},
			{
				Name: "Defensivos",
				Rows: []model.Row{row(), row("", "")},
			},
		},
	}
}

func TestIngest_TwoSheetScenario(t *testing.T) {
	t.Parallel()

	e := NewDefaultEngine()
	res, err := e.Ingest(context.Background(), seedsAndPesticidesWorkbook())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Failure)
	}
	if len(res.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(res.Items))
	}
	if len(res.SheetSummary) != 1 || res.SheetSummary[0] != (model.SummaryEntry{Nome: "Sementes", Itens: 4}) {
		t.Fatalf("unexpected sheet summary: %#v", res.SheetSummary)
	}
	if len(res.CategorySummary) != 1 || res.CategorySummary[0] != (model.SummaryEntry{Nome: "Sementes", Itens: 4}) {
		t.Fatalf("unexpected category summary: %#v", res.CategorySummary)
	}

	wantProducts := []string{"Soja BMX Zeus", "Soja TMG 7062", "Milho AG 8088", "Milho DKB 390"}
	for i, it := range res.Items {
		if it.Produto != wantProducts[i] {
			t.Fatalf("item %d want=%q got=%q", i, wantProducts[i], it.Produto)
		}
		if it.Unidade != "R$/ha" {
			t.Fatalf("item %d unexpected unit %q", i, it.Unidade)
		}
	}
	if res.Items[0].Dose != "60 kg" || res.Items[2].Dose != "" {
		t.Fatalf("unexpected dose values: %q %q", res.Items[0].Dose, res.Items[2].Dose)
	}

	if len(res.Sheets) != 2 {
		t.Fatalf("expected a report per sheet, got %d", len(res.Sheets))
	}
	seeds, pesticides := res.Sheets[0], res.Sheets[1]
	if seeds.Accepted != 4 || seeds.NoiseRows != 1 || seeds.SkipReason != "" {
		t.Fatalf("unexpected seeds report: %+v", seeds)
	}
	if pesticides.SkipReason != SkipEmptySheet || pesticides.HeaderRowIndex != NoColumn {
		t.Fatalf("unexpected pesticides report: %+v", pesticides)
	}
}

func TestIngest_AllNumericProductsFails(t *testing.T) {
	t.Parallel()

	e := NewDefaultEngine()
	wb := &model.Workbook{Sheets: []model.RawSheet{
		{Name: "A", Rows: []model.Row{
			row("Produto", "Valor"),
			row("123", "10,00"),
			row("456", "20,00"),
		}},
		{Name: "B", Rows: []model.Row{
			row("Produto", "Valor"),
			row(789, 30),
		}},
	}}

	res, err := e.Ingest(context.Background(), wb)
	if !errors.Is(err, ErrNoValidItems) {
		t.Fatalf("expected ErrNoValidItems, got %v", err)
	}
	if res == nil || !res.Failed() {
		t.Fatalf("expected failure indicator")
	}
	if len(res.Items) != 0 || len(res.SheetSummary) != 0 {
		t.Fatalf("expected no items, got %#v", res)
	}
}

func TestIngest_SummariesSortedByCount(t *testing.T) {
	t.Parallel()

	e := NewDefaultEngine()
	wb := &model.Workbook{Sheets: []model.RawSheet{
		{Name: "Fungicidas", Rows: []model.Row{
			row("Produto", "Valor"),
			row("Fungicida A", 10),
		}},
		{Name: "Herbicidas", Rows: []model.Row{
			row("Produto", "Valor"),
			row("Herbicida A", 10),
			row("Herbicida B", 12),
		}},
		{Name: "Sem dados", Rows: []model.Row{row("Produto", "Valor")}},
	}}

	res, err := e.Ingest(context.Background(), wb)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(res.SheetSummary) != 2 || res.SheetSummary[0].Nome != "Herbicidas" || res.SheetSummary[1].Nome != "Fungicidas" {
		t.Fatalf("unexpected sheet summary: %#v", res.SheetSummary)
	}
	if res.CategorySummary[0].Nome != "Herbicidas" || res.CategorySummary[0].Itens != 2 {
		t.Fatalf("unexpected category summary: %#v", res.CategorySummary)
	}
	if res.Sheets[2].SkipReason != SkipNoDataRows {
		t.Fatalf("unexpected skip reason: %q", res.Sheets[2].SkipReason)
	}
	if res.Items[0].Produto != "Fungicida A" {
		t.Fatalf("items must keep sheet order, got %q first", res.Items[0].Produto)
	}
}

func TestIngest_Idempotent(t *testing.T) {
	t.Parallel()

	e := NewDefaultEngine()
	first, err := e.Ingest(context.Background(), seedsAndPesticidesWorkbook())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	second, err := e.Ingest(context.Background(), seedsAndPesticidesWorkbook())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	a, _ := json.Marshal(first.Items)
	b, _ := json.Marshal(second.Items)
	if !bytes.Equal(a, b) {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
}

func TestIngest_ParallelKeepsSheetOrder(t *testing.T) {
	t.Parallel()

	wb := &model.Workbook{}
	for _, name := range []string{"Sementes", "Fungicidas", "Herbicidas", "Inseticidas", "Adjuvantes"} {
		wb.Sheets = append(wb.Sheets, model.RawSheet{Name: name, Rows: []model.Row{
			row("Produto", "Fornecedor", "Valor/ha"),
			row(name+" 1", "Agro Sul", 100),
			row(name+" 2", "Coop Norte", 110),
		}})
	}

	serial := NewDefaultEngine()
	parallel, err := NewEngine(DefaultRules(), Options{Workers: 4})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	want, err := serial.Ingest(context.Background(), wb)
	if err != nil {
		t.Fatalf("serial Ingest: %v", err)
	}
	got, err := parallel.Ingest(context.Background(), wb)
	if err != nil {
		t.Fatalf("parallel Ingest: %v", err)
	}

	a, _ := json.Marshal(want)
	b, _ := json.Marshal(got)
	if !bytes.Equal(a, b) {
		t.Fatalf("parallel result differs:\n%s\n%s", a, b)
	}
}

func TestIngest_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewDefaultEngine()
	if _, err := e.Ingest(ctx, seedsAndPesticidesWorkbook()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

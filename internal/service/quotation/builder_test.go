package quotation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/parser"
)

func newTestBuilder() *Builder {
	n := 0
	return &Builder{
		now: func() time.Time { return time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC) },
		newID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func sampleResult() *model.IngestionResult {
	return &model.IngestionResult{Items: []model.ItemRow{
		{Produto: "Soja BMX Zeus", Fornecedor: "Agro Sul", Categoria: "Sementes", Valor: decimal.RequireFromString("450"), Dose: "60 kg", Unidade: "R$/ha"},
		{Produto: "Glifosato 480", Fornecedor: "", Categoria: "Herbicidas", Valor: decimal.RequireFromString("32.5"), Dose: "2,5 L", Unidade: ""},
	}}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	q, err := newTestBuilder().Build(Request{Title: "  Safra 25/26 ", Notes: " ", FarmID: "faz-1"}, sampleResult())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.ID != "id-1" || q.Title != "Safra 25/26" || q.Status != model.QuotationDraft {
		t.Fatalf("unexpected quotation: %+v", q)
	}
	if q.Notes != nil {
		t.Fatalf("blank notes must be nil")
	}
	if q.FarmID == nil || *q.FarmID != "faz-1" {
		t.Fatalf("unexpected farm id: %v", q.FarmID)
	}
	if len(q.ShareToken) != 32 {
		t.Fatalf("share token len=%d", len(q.ShareToken))
	}
	if len(q.Items) != 2 {
		t.Fatalf("items=%d", len(q.Items))
	}

	first := q.Items[0]
	if first.ID != "id-2" || first.QuotationID != "id-1" || first.Quantity != 1 {
		t.Fatalf("unexpected item: %+v", first)
	}
	if !first.UnitPrice.Equal(first.ValuePerHa) {
		t.Fatalf("unit price must equal value per ha")
	}
	if first.DosePerHa == nil || *first.DosePerHa != 60 {
		t.Fatalf("unexpected dose: %v", first.DosePerHa)
	}
	if first.Unit == nil || *first.Unit != "R$/ha" {
		t.Fatalf("unexpected unit: %v", first.Unit)
	}

	second := q.Items[1]
	if second.DosePerHa == nil || *second.DosePerHa != 2.5 {
		t.Fatalf("unexpected dose: %v", second.DosePerHa)
	}
	if second.Unit != nil {
		t.Fatalf("blank unit must be nil")
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	b := newTestBuilder()
	if _, err := b.Build(Request{Title: "   "}, sampleResult()); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("err=%v, want ErrTitleRequired", err)
	}
	if _, err := b.Build(Request{Title: "x"}, &model.IngestionResult{}); !errors.Is(err, parser.ErrNoValidItems) {
		t.Fatalf("err=%v, want ErrNoValidItems", err)
	}
	if _, err := b.Build(Request{Title: "x"}, nil); !errors.Is(err, parser.ErrNoValidItems) {
		t.Fatalf("err=%v, want ErrNoValidItems", err)
	}
}

func TestParseDose(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2,5", 2.5, true},
		{"0.75 L/ha", 0.75, true},
		{"60 kg", 60, true},
		{"", 0, false},
		{"a gosto", 0, false},
		{"0", 0, false},
	}
	for _, tc := range cases {
		got := ParseDose(tc.in)
		if (got != nil) != tc.ok {
			t.Fatalf("ParseDose(%q) ok=%v, want %v", tc.in, got != nil, tc.ok)
		}
		if got != nil && *got != tc.want {
			t.Fatalf("ParseDose(%q)=%v, want %v", tc.in, *got, tc.want)
		}
	}
}

func TestNewShareTokenUnique(t *testing.T) {
	t.Parallel()

	a, b := NewShareToken(), NewShareToken()
	if a == b {
		t.Fatalf("tokens must differ")
	}
}

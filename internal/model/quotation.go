package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory categoria usada quando a planilha não traz nenhuma
const DefaultCategory = "Insumo"

// ItemRow item validado extraído da planilha
type ItemRow struct {
	Produto    string          `json:"produto"`
	Fornecedor string          `json:"fornecedor"`
	Categoria  string          `json:"categoria"`
	Valor      decimal.Decimal `json:"valor"`
	Dose       string          `json:"dose"`
	Unidade    string          `json:"unidade"`
}

// SummaryEntry contagem de itens por aba ou categoria
type SummaryEntry struct {
	Nome  string `json:"nome"`
	Itens int    `json:"itens"`
}

// SheetReport diagnóstico de uma aba (somente exibição/log)
type SheetReport struct {
	SheetName      string         `json:"sheetName"`
	HeaderRowIndex int            `json:"headerRowIndex"`
	Headers        []string       `json:"headers,omitempty"`
	Roles          map[string]int `json:"roles,omitempty"`
	DataRows       int            `json:"dataRows"`
	Accepted       int            `json:"accepted"`
	NoiseRows      int            `json:"noiseRows"`
	NoPriceRows    int            `json:"noPriceRows"`
	SkipReason     string         `json:"skipReason,omitempty"`
}

// IngestionResult resultado da ingestão de uma pasta de trabalho
type IngestionResult struct {
	Items           []ItemRow      `json:"items"`
	SheetSummary    []SummaryEntry `json:"sheetSummary"`
	CategorySummary []SummaryEntry `json:"categorySummary"`
	Sheets          []SheetReport  `json:"sheets"`
	Failure         string         `json:"failure,omitempty"`
}

// Failed indica falha terminal (nenhum item válido)
func (r *IngestionResult) Failed() bool {
	return r.Failure != ""
}

// QuotationStatus estado da cotação
type QuotationStatus string

const (
	QuotationDraft QuotationStatus = "rascunho"
)

// Quotation cotação pronta para persistir
type Quotation struct {
	ID         string          `json:"id"`
	Title      string          `json:"titulo"`
	Notes      *string         `json:"observacoes"`
	Status     QuotationStatus `json:"status"`
	ShareToken string          `json:"approvalToken"`
	FarmID     *string         `json:"fazendaId"`
	SourceFile string          `json:"arquivo,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Items      []QuotationItem `json:"itens"`
}

// QuotationItem item de cotação no formato persistido
type QuotationItem struct {
	ID          string          `json:"id"`
	QuotationID string          `json:"cotacaoId"`
	ProductName string          `json:"produtoNome"`
	Supplier    string          `json:"fornecedor"`
	Category    string          `json:"categoria"`
	ValuePerHa  decimal.Decimal `json:"valorHa"`
	DosePerHa   *float64        `json:"doseHa"`
	Unit        *string         `json:"unidade"`
	Quantity    int             `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"precoUnitario"`
}

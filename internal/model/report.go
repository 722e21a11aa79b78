package model

import "github.com/shopspring/decimal"

// SupplierOption oferta de um fornecedor para um produto
type SupplierOption struct {
	ItemID     string          `json:"id"`
	Supplier   string          `json:"fornecedor"`
	ValuePerHa decimal.Decimal `json:"valorHa"`
}

// ProductGroup produto com todas as ofertas (mais barata primeiro)
type ProductGroup struct {
	Product string           `json:"produto"`
	Options []SupplierOption `json:"opcoes"`
}

// CategoryComparison comparativo de uma categoria
type CategoryComparison struct {
	Category     string          `json:"categoria"`
	Color        string          `json:"cor"`
	MinTotal     decimal.Decimal `json:"somaMin"`
	MaxTotal     decimal.Decimal `json:"somaMax"`
	ProductCount int             `json:"numProdutos"`
	OptionCount  int             `json:"numCotacoes"`
	Groups       []ProductGroup  `json:"grupos"`
}

// ComparisonReport comparativo de preços de uma cotação
type ComparisonReport struct {
	QuotationID      string               `json:"cotacaoId"`
	Title            string               `json:"titulo"`
	Categories       []CategoryComparison `json:"categorias"`
	TotalMin         decimal.Decimal      `json:"totalGeralMin"`
	TotalMax         decimal.Decimal      `json:"totalGeralMax"`
	PotentialSavings decimal.Decimal      `json:"economiaPotencial"`
}

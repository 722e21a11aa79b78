package parser

import "errors"

// NoColumn sentinela de papel não resolvido
const NoColumn = -1

// Nomes dos papéis de coluna
const (
	RoleProduct  = "product"
	RoleSupplier = "supplier"
	RoleCategory = "category"
	RolePrice    = "price"
	RoleDose     = "dose"
	RoleUnit     = "unit"
)

// ErrNoValidItems nenhuma aba produziu item válido
var ErrNoValidItems = errors.New("nenhum produto com valor válido encontrado nas abas da planilha; verifique cabeçalhos e valores")

// HeaderAssignment linha de cabeçalho localizada numa aba
type HeaderAssignment struct {
	HeaderRowIndex int      `json:"headerRowIndex"`
	Headers        []string `json:"headers"`
}

// ColumnRoles papel semântico -> índice de coluna
// Product e Price sempre resolvidos; demais podem ser NoColumn.
type ColumnRoles struct {
	Product  int `json:"product"`
	Supplier int `json:"supplier"`
	Category int `json:"category"`
	Price    int `json:"price"`
	Dose     int `json:"dose"`
	Unit     int `json:"unit"`
}

// Map papéis resolvidos (omite NoColumn)
func (r ColumnRoles) Map() map[string]int {
	m := make(map[string]int, 6)
	set := func(name string, idx int) {
		if idx != NoColumn {
			m[name] = idx
		}
	}
	set(RoleProduct, r.Product)
	set(RoleSupplier, r.Supplier)
	set(RoleCategory, r.Category)
	set(RolePrice, r.Price)
	set(RoleDose, r.Dose)
	set(RoleUnit, r.Unit)
	return m
}

// textColumns colunas de texto (produto/fornecedor/categoria) que não viram candidatas a preço
func (r ColumnRoles) textColumns() []int {
	cols := make([]int, 0, 3)
	for _, idx := range []int{r.Product, r.Supplier, r.Category} {
		if idx != NoColumn {
			cols = append(cols, idx)
		}
	}
	return cols
}


// Options limites e valores padrão do motor
type Options struct {
	MaxHeaderScan       int    `toml:"max_header_scan"`
	MaxProductLen       int    `toml:"max_product_len"`
	DefaultCategory     string `toml:"default_category"`
	Currency            string `toml:"currency"`
	DefaultPriceColumn  int    `toml:"default_price_column"`
	RoleSampleRows      int    `toml:"role_sample_rows"`
	CandidateSampleRows int    `toml:"candidate_sample_rows"`
	MinNumericHits      int    `toml:"min_numeric_hits"`
	Workers             int    `toml:"workers"`
}

// DefaultOptions valores padrão
func DefaultOptions() Options {
	return Options{
		MaxHeaderScan:       25,
		MaxProductLen:       120,
		DefaultCategory:     "Insumo",
		Currency:            "R$",
		DefaultPriceColumn:  3,
		RoleSampleRows:      5,
		CandidateSampleRows: 12,
		MinNumericHits:      2,
		Workers:             1,
	}
}

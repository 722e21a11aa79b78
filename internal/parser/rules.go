package parser

import (
	"fmt"
	"regexp"
)

// Keywords palavras-chave comparadas com o texto normalizado
type Keywords struct {
	Contains []string `toml:"contains"`
	Equals   []string `toml:"equals"`
}

// Match texto contém ou é igual a alguma palavra-chave
func (k Keywords) Match(text string) bool {
	return ContainsAny(text, k.Contains) || EqualsAny(text, k.Equals)
}

// HeaderRule regra de cabeçalho
// Casa quando AnyOf casa, todas as AllOf casam e NoneOf não casa.
// NoneOf tem precedência.
type HeaderRule struct {
	Name   string     `toml:"name"`
	AnyOf  Keywords   `toml:"any_of"`
	AllOf  []Keywords `toml:"all_of"`
	NoneOf Keywords   `toml:"none_of"`
}

// Match aplica a regra a um cabeçalho normalizado
func (r HeaderRule) Match(header string) bool {
	if r.NoneOf.Match(header) {
		return false
	}
	if !r.AnyOf.Match(header) {
		return false
	}
	for _, k := range r.AllOf {
		if !k.Match(header) {
			return false
		}
	}
	return true
}

// UnitRule rótulo de unidade derivado do cabeçalho da coluna de preço
type UnitRule struct {
	Pattern string `toml:"pattern"`
	Suffix  string `toml:"suffix"`
}

// Rules tabelas de regras (substituíveis via config)
type Rules struct {
	// cabeçalho
	HeaderKeywords Keywords `toml:"header_keywords"`

	// papéis: alternativas, vence a primeira coluna que casar com qualquer uma
	Product  []HeaderRule `toml:"product"`
	Supplier []HeaderRule `toml:"supplier"`
	Category []HeaderRule `toml:"category"`
	Dose     []HeaderRule `toml:"dose"`
	Unit     []HeaderRule `toml:"unit"`

	// preço: níveis avaliados em ordem
	PriceTiers []HeaderRule `toml:"price_tiers"`

	// extração
	PriceWords  Keywords `toml:"price_words"`
	PackageSize Keywords `toml:"package_size"`
	Purpose     Keywords `toml:"purpose"`

	// valores monetários
	CurrencyPattern string `toml:"currency_pattern"`

	// ruído
	SeparatorPattern   string `toml:"separator_pattern"`
	NumericPattern     string `toml:"numeric_pattern"`
	NotePattern        string `toml:"note_pattern"`
	ClosingPattern     string `toml:"closing_pattern"`
	UnitPhrasePattern  string `toml:"unit_phrase_pattern"`
	MaxUnitPhraseWords int    `toml:"max_unit_phrase_words"`

	// unidade do preço
	Units       []UnitRule `toml:"units"`
	DefaultUnit string     `toml:"default_unit"`
}

var priceWords = []string{"preco", "valor", "custo"}

// DefaultRules tabelas para planilhas de cotação agrícola em português
func DefaultRules() Rules {
	return Rules{
		HeaderKeywords: Keywords{Contains: []string{
			"produto", "descricao", "item", "fornecedor", "categoria",
			"valor", "preco", "custo", "dose", "unid", "/ha",
		}},

		Product: []HeaderRule{{
			Name: "produto",
			AnyOf: Keywords{Contains: []string{
				"produto", "product", "insumo", "nome", "item", "descricao",
				"cultivo", "cultura", "marca",
			}},
			NoneOf: Keywords{Contains: []string{"dose", "kg/ha", "total", "custo", "preco", "valor"}},
		}},
		Supplier: []HeaderRule{{
			Name: "fornecedor",
			AnyOf: Keywords{Contains: []string{
				"fornecedor", "empresa", "supplier", "fabricante", "marca", "brand",
			}},
		}},
		Category: []HeaderRule{{
			Name: "categoria",
			AnyOf: Keywords{Contains: []string{
				"categoria", "category", "tipo", "grupo", "classe", "class",
				"segmento", "finalidade",
			}},
		}},
		Dose: []HeaderRule{
			{
				Name:  "dose",
				AnyOf: Keywords{Contains: []string{"dose"}, Equals: []string{"kg/ha", "l/ha"}},
			},
			{
				Name:  "produto por area",
				AnyOf: Keywords{Contains: []string{"produto"}},
				AllOf: []Keywords{{Contains: []string{"kg", "dose"}}},
			},
		},
		Unit: []HeaderRule{{
			Name:  "unidade",
			AnyOf: Keywords{Contains: []string{"unid", "unit"}, Equals: []string{"un", "kg", "l"}},
		}},

		PriceTiers: []HeaderRule{
			{
				Name: "por hectare",
				AnyOf: Keywords{Contains: []string{
					"r$/ha", "preco/ha", "valor/ha", "preco_ha", "valor_ha", "custo_ha", "/ha",
				}},
				NoneOf: Keywords{Contains: []string{"total"}},
			},
			{
				Name:   "preco + ha",
				AnyOf:  Keywords{Contains: priceWords},
				AllOf:  []Keywords{{Contains: []string{"ha", "hectare"}}},
				NoneOf: Keywords{Contains: []string{"total"}},
			},
			{
				Name:   "qualquer preco",
				AnyOf:  Keywords{Contains: append([]string{"price"}, priceWords...)},
				NoneOf: Keywords{Contains: []string{"total"}},
			},
		},

		PriceWords: Keywords{Contains: []string{"valor", "preco", "custo", "r$", "price"}},
		PackageSize: Keywords{Contains: []string{
			"volume", "embal", "tamanho", "conteudo", "litro", "l ", "ml", "kg", "g ",
		}},
		Purpose: Keywords{Contains: []string{
			"finalidade", "aplicacao", "aplica", "uso", "serve", "indicacao",
		}},

		CurrencyPattern: `(?i)r\$|rs\$|usd|brl`,

		SeparatorPattern:   `^[-_=/*\\.\s]+$`,
		NumericPattern:     `^\d+[\d\s.,-]*$`,
		NotePattern:        `(observac|anotac|\bobs\b|coment|\bnota\b|resumo|legenda|informac|detalhe)`,
		ClosingPattern:     `(total|subtotal|soma|resultado|conclusao|assinatura|aprovado)`,
		UnitPhrasePattern:  `(sacas?/?ha|kg/?ha|l/?ha|\bha\b|hectare)`,
		MaxUnitPhraseWords: 3,

		Units: []UnitRule{
			{Pattern: `/ha|\bha\b|hectare`, Suffix: "/ha"},
			{Pattern: `/l\b|/lt|\blitros?\b|\sl$`, Suffix: "/L"},
			{Pattern: `/kg|\skg$|\bquilo`, Suffix: "/kg"},
			{Pattern: `/sc|\bsacas?\b`, Suffix: "/saca"},
			{Pattern: `/un|unit|unid`, Suffix: "/un"},
			{Pattern: `total`, Suffix: " total"},
		},
		DefaultUnit: "/ha",
	}
}

type compiledUnit struct {
	re     *regexp.Regexp
	suffix string
}

// compiledRules expressões regulares pré-compiladas
type compiledRules struct {
	currency   *regexp.Regexp
	separator  *regexp.Regexp
	numeric    *regexp.Regexp
	note       *regexp.Regexp
	closing    *regexp.Regexp
	unitPhrase *regexp.Regexp
	units      []compiledUnit
}

func compileRules(r Rules) (*compiledRules, error) {
	c := &compiledRules{}
	patterns := []struct {
		name string
		expr string
		dst  **regexp.Regexp
	}{
		{"currency_pattern", r.CurrencyPattern, &c.currency},
		{"separator_pattern", r.SeparatorPattern, &c.separator},
		{"numeric_pattern", r.NumericPattern, &c.numeric},
		{"note_pattern", r.NotePattern, &c.note},
		{"closing_pattern", r.ClosingPattern, &c.closing},
		{"unit_phrase_pattern", r.UnitPhrasePattern, &c.unitPhrase},
	}
	for _, p := range patterns {
		if p.expr == "" {
			continue
		}
		re, err := regexp.Compile(p.expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", p.name, err)
		}
		*p.dst = re
	}
	for i, u := range r.Units {
		re, err := regexp.Compile(u.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile units[%d]: %w", i, err)
		}
		c.units = append(c.units, compiledUnit{re: re, suffix: u.Suffix})
	}
	return c, nil
}

// firstColumn primeira coluna cujo cabeçalho casa com alguma regra
func firstColumn(headers []string, rules []HeaderRule) int {
	for i, h := range headers {
		for _, r := range rules {
			if r.Match(h) {
				return i
			}
		}
	}
	return NoColumn
}

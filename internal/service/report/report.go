package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

// UnknownSupplier fornecedor não informado
const UnknownSupplier = "N/I"

// Build comparativo categoria -> produto -> ofertas
//
//	MinTotal = soma da oferta mais barata de cada produto
//	MaxTotal = soma da oferta mais cara de cada produto
//	PotentialSavings = max(TotalMax - TotalMin, 0)
//
// Produtos em ordem alfabética (pt-BR), ofertas da mais barata à mais cara,
// categorias por MaxTotal decrescente.
func Build(q *model.Quotation, palette *Palette) *model.ComparisonReport {
	rep := &model.ComparisonReport{
		Categories:       make([]model.CategoryComparison, 0),
		TotalMin:         decimal.Zero,
		TotalMax:         decimal.Zero,
		PotentialSavings: decimal.Zero,
	}
	if q == nil {
		return rep
	}
	rep.QuotationID = q.ID
	rep.Title = q.Title
	if palette == nil {
		palette = NewPalette()
	}

	type bucket struct {
		products []string
		options  map[string][]model.SupplierOption
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, it := range q.Items {
		if strings.TrimSpace(it.ProductName) == "" {
			continue
		}
		cat := it.Category
		if strings.TrimSpace(cat) == "" {
			cat = model.DefaultCategory
		}
		b, ok := buckets[cat]
		if !ok {
			b = &bucket{options: make(map[string][]model.SupplierOption)}
			buckets[cat] = b
			order = append(order, cat)
		}
		if _, ok := b.options[it.ProductName]; !ok {
			b.products = append(b.products, it.ProductName)
		}
		supplier := strings.TrimSpace(it.Supplier)
		if supplier == "" {
			supplier = UnknownSupplier
		}
		b.options[it.ProductName] = append(b.options[it.ProductName], model.SupplierOption{
			ItemID:     it.ID,
			Supplier:   supplier,
			ValuePerHa: it.ValuePerHa,
		})
	}

	col := collate.New(language.BrazilianPortuguese)
	for _, cat := range order {
		b := buckets[cat]
		cc := model.CategoryComparison{
			Category: cat,
			Color:    palette.Color(cat),
			MinTotal: decimal.Zero,
			MaxTotal: decimal.Zero,
			Groups:   make([]model.ProductGroup, 0, len(b.products)),
		}
		for _, prod := range b.products {
			opts := b.options[prod]
			sort.SliceStable(opts, func(i, j int) bool {
				return opts[i].ValuePerHa.LessThan(opts[j].ValuePerHa)
			})
			cc.Groups = append(cc.Groups, model.ProductGroup{Product: prod, Options: opts})
			cc.MinTotal = cc.MinTotal.Add(opts[0].ValuePerHa)
			cc.MaxTotal = cc.MaxTotal.Add(opts[len(opts)-1].ValuePerHa)
			cc.OptionCount += len(opts)
		}
		sort.SliceStable(cc.Groups, func(i, j int) bool {
			return col.CompareString(cc.Groups[i].Product, cc.Groups[j].Product) < 0
		})
		cc.ProductCount = len(cc.Groups)

		rep.Categories = append(rep.Categories, cc)
		rep.TotalMin = rep.TotalMin.Add(cc.MinTotal)
		rep.TotalMax = rep.TotalMax.Add(cc.MaxTotal)
	}
	sort.SliceStable(rep.Categories, func(i, j int) bool {
		return rep.Categories[i].MaxTotal.GreaterThan(rep.Categories[j].MaxTotal)
	})

	if savings := rep.TotalMax.Sub(rep.TotalMin); savings.IsPositive() {
		rep.PotentialSavings = savings
	}
	return rep
}

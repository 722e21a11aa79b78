package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/danielacalcdecampo/agrocota/internal/importer"
	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/util"
)

func printPreview(w io.Writer, p *importer.Preview) {
	fmt.Fprintf(w, "%s: %d itens, %d produtos, %d fornecedores, %d categorias (%s)\n\n",
		p.Filename, len(p.Result.Items), p.UniqueProducts, p.UniqueSuppliers, p.UniqueCategories, p.Duration)

	printSummary(w, "Aba", p.Result.SheetSummary)
	printSummary(w, "Categoria", p.Result.CategorySummary)
	printItems(w, p.Result.Items)
}

func printSummary(w io.Writer, title string, entries []model.SummaryEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{title, "Itens"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Nome, e.Itens})
	}
	t.Render()
	fmt.Fprintln(w)
}

func printItems(w io.Writer, items []model.ItemRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Produto", "Fornecedor", "Categoria", "Valor", "Unidade", "Dose"})
	for i, it := range items {
		t.AppendRow(table.Row{i + 1, it.Produto, it.Fornecedor, it.Categoria, util.FormatBRL(it.Valor), it.Unidade, it.Dose})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 48},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// printSheets diagnóstico por aba quando nada foi aproveitado
func printSheets(w io.Writer, sheets []model.SheetReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Aba", "Cabeçalho", "Linhas", "Ruído", "Sem preço", "Motivo"})
	for _, s := range sheets {
		header := "-"
		if s.HeaderRowIndex >= 0 {
			header = fmt.Sprintf("linha %d", s.HeaderRowIndex+1)
		}
		t.AppendRow(table.Row{s.SheetName, header, s.DataRows, s.NoiseRows, s.NoPriceRows, s.SkipReason})
	}
	t.Render()
}

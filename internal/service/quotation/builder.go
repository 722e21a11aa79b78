package quotation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/parser"
)

// ErrTitleRequired título obrigatório
var ErrTitleRequired = errors.New("informe um título para a cotação")

var leadingFloatRe = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)`)

// Request dados informados pelo consultor
type Request struct {
	Title      string `json:"titulo" form:"titulo"`
	Notes      string `json:"observacoes" form:"observacoes"`
	FarmID     string `json:"fazendaId" form:"fazendaId"`
	SourceFile string `json:"arquivo" form:"-"`
}

// Builder monta a cotação em rascunho a partir do resultado da ingestão
type Builder struct {
	now   func() time.Time
	newID func() string
}

// NewBuilder cria o montador com relógio e ids reais
func NewBuilder() *Builder {
	return &Builder{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Build cotação + itens prontos para gravar
// Sem título devolve ErrTitleRequired; sem itens, parser.ErrNoValidItems.
func (b *Builder) Build(req Request, result *model.IngestionResult) (*model.Quotation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if result == nil || len(result.Items) == 0 {
		return nil, parser.ErrNoValidItems
	}

	q := &model.Quotation{
		ID:         b.newID(),
		Title:      title,
		Notes:      optional(req.Notes),
		Status:     model.QuotationDraft,
		ShareToken: NewShareToken(),
		FarmID:     optional(req.FarmID),
		SourceFile: req.SourceFile,
		CreatedAt:  b.now(),
		Items:      make([]model.QuotationItem, 0, len(result.Items)),
	}
	for _, it := range result.Items {
		q.Items = append(q.Items, model.QuotationItem{
			ID:          b.newID(),
			QuotationID: q.ID,
			ProductName: it.Produto,
			Supplier:    it.Fornecedor,
			Category:    it.Categoria,
			ValuePerHa:  it.Valor,
			DosePerHa:   ParseDose(it.Dose),
			Unit:        optional(it.Unidade),
			Quantity:    1,
			UnitPrice:   it.Valor,
		})
	}
	return q, nil
}

// NewShareToken token de compartilhamento (32 hex)
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ParseDose dose por hectare; vírgula decimal, lê o número inicial ("2,5 L" -> 2.5)
// Vazio, ilegível ou zero -> nil.
func ParseDose(raw string) *float64 {
	v := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	lit := leadingFloatRe.FindString(v)
	if lit == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(lit, "."), 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

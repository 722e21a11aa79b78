package report

import "sync"

var defaultRotation = []string{
	"#1B5E20", "#F57C00", "#C62828", "#1565C0", "#00838F",
	"#6A1B9A", "#4E342E", "#0277BD", "#EF6C00", "#558B2F",
	"#00695C", "#880E4F", "#1A237E", "#BF360C", "#006064",
	"#F9A825", "#4A148C", "#37474F", "#E65100", "#283593",
	"#33691E", "#FF6F00", "#4527A0", "#AD1457",
}

var defaultSeeds = map[string]string{
	"Fungicida":    "#1B5E20",
	"Inseticida":   "#F57C00",
	"Herbicida":    "#C62828",
	"Nutricao":     "#1565C0",
	"Foliar":       "#00838F",
	"Fertilizante": "#6A1B9A",
	"Adjuvante":    "#4E342E",
	"Semente":      "#0277BD",
	"Acaricida":    "#EF6C00",
	"Nematicida":   "#558B2F",
	"Regulador":    "#00695C",
	"Outros":       "#546E7A",
}

// Palette cor estável por categoria
// Categorias conhecidas usam a semente; as demais recebem a próxima cor da rotação.
type Palette struct {
	mu       sync.Mutex
	colors   map[string]string
	rotation []string
	next     int
}

// NewPalette paleta padrão
func NewPalette() *Palette {
	return NewPaletteWith(defaultSeeds, defaultRotation)
}

// NewPaletteWith paleta com sementes e rotação próprias
func NewPaletteWith(seeds map[string]string, rotation []string) *Palette {
	colors := make(map[string]string, len(seeds))
	for k, v := range seeds {
		colors[k] = v
	}
	if len(rotation) == 0 {
		rotation = defaultRotation
	}
	return &Palette{colors: colors, rotation: rotation, next: len(seeds)}
}

// Color cor da categoria (atribui na primeira consulta)
func (p *Palette) Color(category string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.colors[category]; ok {
		return c
	}
	c := p.rotation[p.next%len(p.rotation)]
	p.colors[category] = c
	p.next++
	return c
}

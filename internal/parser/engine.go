package parser

// Engine motor de ingestão de planilhas de cotação
// Sem estado entre execuções: a mesma entrada sempre gera o mesmo resultado.
type Engine struct {
	rules Rules
	opts  Options
	re    *compiledRules
}

// NewEngine cria o motor a partir das tabelas de regras e opções
func NewEngine(rules Rules, opts Options) (*Engine, error) {
	re, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	defaults := DefaultOptions()
	if opts.MaxHeaderScan <= 0 {
		opts.MaxHeaderScan = defaults.MaxHeaderScan
	}
	if opts.MaxProductLen <= 0 {
		opts.MaxProductLen = defaults.MaxProductLen
	}
	if opts.DefaultCategory == "" {
		opts.DefaultCategory = defaults.DefaultCategory
	}
	if opts.Currency == "" {
		opts.Currency = defaults.Currency
	}
	if opts.DefaultPriceColumn < 0 {
		opts.DefaultPriceColumn = defaults.DefaultPriceColumn
	}
	if opts.RoleSampleRows <= 0 {
		opts.RoleSampleRows = defaults.RoleSampleRows
	}
	if opts.CandidateSampleRows <= 0 {
		opts.CandidateSampleRows = defaults.CandidateSampleRows
	}
	if opts.MinNumericHits <= 0 {
		opts.MinNumericHits = defaults.MinNumericHits
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	return &Engine{rules: rules, opts: opts, re: re}, nil
}

// NewDefaultEngine motor com as regras padrão (pt-BR)
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultRules(), DefaultOptions())
	if err != nil {
		panic(err)
	}
	return e
}

// Options opções efetivas
func (e *Engine) Options() Options {
	return e.opts
}

package parser

import (
	"strings"
	"unicode/utf8"
)

// IsNoise decide se o texto da coluna de produto é ruído
// (vazio, longo demais, só separadores, só número, nota administrativa,
// linha de total/fechamento ou rótulo solto de unidade agronômica).
func (e *Engine) IsNoise(candidate string) bool {
	v := strings.TrimSpace(candidate)
	if v == "" {
		return true
	}
	if utf8.RuneCountInString(v) > e.opts.MaxProductLen {
		return true
	}
	if e.re.separator != nil && e.re.separator.MatchString(v) {
		return true
	}
	if e.re.numeric != nil && e.re.numeric.MatchString(v) {
		return true
	}

	n := Normalize(v)
	if e.re.note != nil && e.re.note.MatchString(n) {
		return true
	}
	if e.re.closing != nil && e.re.closing.MatchString(n) {
		return true
	}
	if e.re.unitPhrase != nil && e.re.unitPhrase.MatchString(n) &&
		len(strings.Fields(v)) <= e.rules.MaxUnitPhraseWords {
		return true
	}

	return false
}

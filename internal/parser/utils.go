package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/danielacalcdecampo/agrocota/internal/model"
)

var (
	wordRe       = regexp.MustCompile(`\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize minúsculas, sem acentos e sem espaços nas pontas
// "Preço/ha" -> "preco/ha"
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		out = strings.ToLower(text)
	}
	return strings.TrimSpace(out)
}

// NormalizeHeaders normaliza todos os rótulos de cabeçalho
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}

// ContainsAny text contém alguma das palavras-chave
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// EqualsAny text igual a algum dos valores
func EqualsAny(text string, values []string) bool {
	for _, v := range values {
		if text == v {
			return true
		}
	}
	return false
}

// TitleCase primeira letra de cada palavra maiúscula, resto minúsculo
// "HERBICIDA" -> "Herbicida", "tratamento de sementes" -> "Tratamento De Sementes"
func TitleCase(s string) string {
	return wordRe.ReplaceAllStringFunc(s, func(w string) string {
		r, size := utf8.DecodeRuneInString(w)
		return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	})
}

// cellText texto aparado da célula
func cellText(row model.Row, idx int) string {
	return strings.TrimSpace(row.At(idx).String())
}

// isPlainNumber valor que parece número puro ("12", "3,5", "0.75")
func isPlainNumber(v string) bool {
	v = strings.TrimSpace(strings.Replace(v, ",", ".", 1))
	if v == "" {
		return true
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// headerAt rótulo da coluna idx (vazio fora do intervalo)
func headerAt(headers []string, idx int) string {
	if idx < 0 || idx >= len(headers) {
		return ""
	}
	return headers[idx]
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

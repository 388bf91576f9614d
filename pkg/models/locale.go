package models

import (
	"strings"

	"golang.org/x/text/language"
)

// Locales is the locale configuration every engine call receives explicitly.
// Supported is in fallback priority order and always contains Default.
type Locales struct {
	Default   string   `json:"default" yaml:"default"`
	Supported []string `json:"supported" yaml:"supported"`
}

// NewLocales canonicalizes the given codes (zh-cn -> zh-CN), drops unparsable
// or duplicate entries and makes sure the default locale is supported.
func NewLocales(defaultLocale string, supported []string) Locales {
	def := CanonicalLocale(defaultLocale)
	seen := make(map[string]bool, len(supported)+1)
	out := make([]string, 0, len(supported)+1)
	for _, code := range supported {
		c := CanonicalLocale(code)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if def == "" && len(out) > 0 {
		def = out[0]
	}
	if def != "" && !seen[def] {
		out = append([]string{def}, out...)
	}
	return Locales{Default: def, Supported: out}
}

// CanonicalLocale returns the BCP 47 form of code, or "" when it does not parse.
func CanonicalLocale(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return tag.String()
}

// Lookup maps code onto a supported locale key.
func (l Locales) Lookup(code string) (string, bool) {
	for _, s := range l.Supported {
		if s == code {
			return s, true
		}
	}
	c := CanonicalLocale(code)
	if c == "" {
		return "", false
	}
	for _, s := range l.Supported {
		if s == c {
			return s, true
		}
	}
	return "", false
}

func (l Locales) IsDefault(code string) bool {
	c, ok := l.Lookup(code)
	return ok && c == l.Default
}

package services

import (
	"fmt"
	"sort"
	"strings"

	"site-cms/pkg/models"
)

// LocalizedValue maps a locale code to text. A locale present with "" was
// explicitly cleared; a missing locale was never edited.
type LocalizedValue map[string]string

// EnsureRecord lifts any JSON value into a LocalizedValue. Plain strings are
// legacy single-locale text and belong to the default locale. Object entries
// are kept only for supported locales with string values. An exact locale key
// wins over aliases of it such as "EN" or "zh-cn"; among aliases the
// first in key order wins.
func EnsureRecord(value interface{}, loc models.Locales) LocalizedValue {
	out := LocalizedValue{}
	var entries map[string]string
	switch v := value.(type) {
	case string:
		if loc.Default != "" {
			out[loc.Default] = v
		}
		return out
	case LocalizedValue:
		entries = v
	case map[string]string:
		entries = v
	case map[string]interface{}:
		entries = make(map[string]string, len(v))
		for k, inner := range v {
			if s, ok := inner.(string); ok {
				entries[k] = s
			}
		}
	case map[interface{}]interface{}:
		entries = make(map[string]string, len(v))
		for k, inner := range v {
			if s, ok := inner.(string); ok {
				entries[fmt.Sprint(k)] = s
			}
		}
	default:
		return out
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if code, ok := loc.Lookup(k); ok && code == k {
			out[code] = entries[k]
		}
	}
	for _, k := range keys {
		code, ok := loc.Lookup(k)
		if !ok || code == k {
			continue
		}
		if _, taken := out[code]; !taken {
			out[code] = entries[k]
		}
	}
	return out
}

// GetText resolves the text to show for locale: the locale itself, then the
// default locale, then the first non-empty locale in priority order.
func GetText(record LocalizedValue, locale, fallback string, loc models.Locales) string {
	if v, ok := record[locale]; ok && !isBlank(v) {
		return v
	}
	if v, ok := record[loc.Default]; ok && !isBlank(v) {
		return v
	}
	for _, code := range loc.Supported {
		if v, ok := record[code]; ok && !isBlank(v) {
			return v
		}
	}
	return fallback
}

// Lookup returns the text stored for locale without any fallback, so an
// explicitly cleared value can be told apart from a missing one.
func Lookup(record LocalizedValue, locale string) (string, bool) {
	v, ok := record[locale]
	return v, ok
}

// SetText returns a copy of record with locale set to text.
func SetText(record LocalizedValue, text, locale string) LocalizedValue {
	out := record.Clone()
	out[locale] = text
	return out
}

// CleanForPersist applies a clean policy to record. drop-empty removes blank
// values; keep-empty keeps them so a cleared field stays cleared after reload.
func CleanForPersist(record LocalizedValue, policy string) LocalizedValue {
	out := make(LocalizedValue, len(record))
	for k, v := range record {
		if policy == models.CleanDropEmpty && isBlank(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns a copy that is never nil.
func (v LocalizedValue) Clone() LocalizedValue {
	out := make(LocalizedValue, len(v)+1)
	for k, s := range v {
		out[k] = s
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

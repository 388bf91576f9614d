package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLocales(t *testing.T) {
	tests := []struct {
		name      string
		def       string
		supported []string
		want      Locales
	}{
		{
			name:      "canonicalizes codes",
			def:       "zh-cn",
			supported: []string{"zh-cn", "EN", "zh-tw"},
			want:      Locales{Default: "zh-CN", Supported: []string{"zh-CN", "en", "zh-TW"}},
		},
		{
			name:      "adds missing default first",
			def:       "en",
			supported: []string{"zh-CN"},
			want:      Locales{Default: "en", Supported: []string{"en", "zh-CN"}},
		},
		{
			name:      "drops duplicates and garbage",
			def:       "en",
			supported: []string{"en", "en", "!!", ""},
			want:      Locales{Default: "en", Supported: []string{"en"}},
		},
		{
			name:      "empty default takes first supported",
			def:       "",
			supported: []string{"en", "zh-CN"},
			want:      Locales{Default: "en", Supported: []string{"en", "zh-CN"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLocales(tt.def, tt.supported))
		})
	}
}

func TestLocalesLookup(t *testing.T) {
	loc := NewLocales("zh-CN", []string{"zh-CN", "en", "zh-TW"})

	got, ok := loc.Lookup("zh-tw")
	assert.True(t, ok)
	assert.Equal(t, "zh-TW", got)

	_, ok = loc.Lookup("fr")
	assert.False(t, ok)

	assert.True(t, loc.IsDefault("zh-cn"))
	assert.False(t, loc.IsDefault("en"))
}

func TestCMSConfigPage(t *testing.T) {
	cfg := &CMSConfig{Pages: []PageSchema{{Name: "home"}, {Name: "footer"}}}

	p, ok := cfg.Page("footer")
	assert.True(t, ok)
	assert.Equal(t, "footer", p.Name)

	_, ok = cfg.Page("missing")
	assert.False(t, ok)

	var nilCfg *CMSConfig
	_, ok = nilCfg.Page("home")
	assert.False(t, ok)
}

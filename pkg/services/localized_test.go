package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"site-cms/pkg/models"
)

var testLocales = models.NewLocales("zh-CN", []string{"zh-CN", "en", "zh-TW"})

func TestEnsureRecord(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  LocalizedValue
	}{
		{"legacy string", "你好", LocalizedValue{"zh-CN": "你好"}},
		{"nil", nil, LocalizedValue{}},
		{"number", 42.0, LocalizedValue{}},
		{"array", []interface{}{"a"}, LocalizedValue{}},
		{
			"filters unsupported and non-string",
			map[string]interface{}{"zh-CN": "你好", "en": nil, "fr": "Bonjour", "zh-TW": 3.0},
			LocalizedValue{"zh-CN": "你好"},
		},
		{
			"keeps explicit empty",
			map[string]interface{}{"zh-CN": "", "en": "Hello"},
			LocalizedValue{"zh-CN": "", "en": "Hello"},
		},
		{
			"canonicalizes keys",
			map[interface{}]interface{}{"zh-tw": "您好"},
			LocalizedValue{"zh-TW": "您好"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnsureRecord(tt.value, testLocales))
		})
	}
}

func TestGetText(t *testing.T) {
	record := LocalizedValue{"zh-CN": "", "en": "Hello", "zh-TW": "您好"}

	assert.Equal(t, "您好", GetText(record, "zh-TW", "-", testLocales))
	assert.Equal(t, "Hello", GetText(record, "zh-CN", "-", testLocales))
	assert.Equal(t, "Hello", GetText(LocalizedValue{"en": "Hello"}, "zh-TW", "-", testLocales))
	assert.Equal(t, "-", GetText(LocalizedValue{"en": "  "}, "en", "-", testLocales))
	assert.Equal(t, "-", GetText(nil, "en", "-", testLocales))
}

func TestLookupDistinguishesClearedFromMissing(t *testing.T) {
	record := LocalizedValue{"zh-CN": ""}

	v, ok := Lookup(record, "zh-CN")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = Lookup(record, "en")
	assert.False(t, ok)
}

func TestSetTextDoesNotMutate(t *testing.T) {
	record := LocalizedValue{"zh-CN": "你好", "en": "Hello"}
	updated := SetText(record, "Hi", "en")

	assert.Equal(t, LocalizedValue{"zh-CN": "你好", "en": "Hi"}, updated)
	assert.Equal(t, "Hello", record["en"])

	assert.Equal(t, LocalizedValue{"en": "x"}, SetText(nil, "x", "en"))
}

func TestCleanForPersist(t *testing.T) {
	record := LocalizedValue{"zh-CN": "", "en": " ", "zh-TW": "您好"}

	assert.Equal(t, LocalizedValue{"zh-TW": "您好"}, CleanForPersist(record, models.CleanDropEmpty))
	assert.Equal(t, record, CleanForPersist(record, models.CleanKeepEmpty))
}

func TestEnsureRecordPrefersExactLocaleKeys(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := EnsureRecord(map[string]interface{}{"en": "Hello", "EN": "Hi", "zh-cn": "别名", "zh-CN": "你好"}, testLocales)
		assert.Equal(t, LocalizedValue{"en": "Hello", "zh-CN": "你好"}, got)
	}

	for i := 0; i < 50; i++ {
		got := EnsureRecord(map[string]string{"EN": "Hi", "En": "Hey"}, testLocales)
		assert.Equal(t, LocalizedValue{"en": "Hi"}, got)
	}
}

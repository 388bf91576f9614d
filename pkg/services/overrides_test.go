package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNonDefaultLocales(t *testing.T) {
	e := NewEngine(testLocales)
	raw := decode(t, `{"hero":{"title":{"zh-CN":"你好","en":"Hello"}}}`)

	ov := e.Extract(raw, heroSchema())

	assert.Equal(t, LocalizedValue{"en": "Hello"}, ov.Get("hero").Get("title").Locales)
	b, err := json.Marshal(ov)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hero":{"title":{"en":"Hello"}}}`, string(b))
}

func TestExtractIsSparse(t *testing.T) {
	e := NewEngine(testLocales)
	raw := decode(t, `{"hero":{"title":{"zh-CN":"你好","en":"  "},"subtitle":{"fr":"Salut"}},"cta":"legacy"}`)

	ov := e.Extract(raw, homeSchema())

	require.NotNil(t, ov)
	assert.True(t, ov.IsEmpty())
	b, err := json.Marshal(ov)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestExtractUsesDefaultsForMissingFields(t *testing.T) {
	e := NewEngine(testLocales)

	ov := e.Extract(map[string]interface{}{}, homeSchema())

	assert.Equal(t, LocalizedValue{"en": "Learn more"}, ov.Get("cta").Locales)
}

func TestExtractListsArePositional(t *testing.T) {
	e := NewEngine(testLocales)
	raw := decode(t, `{"cards":[
		{"slug":"a","label":{"zh-CN":"甲","en":"A"}},
		{"slug":"b","label":{"zh-CN":"乙"}},
		{"slug":"c","label":{"zh-CN":"丙","zh-TW":"丙"}},
		{"slug":"d","label":{"zh-CN":"丁"}}
	]}`)

	ov := e.Extract(raw, homeSchema())

	cards := ov.Get("cards")
	require.Len(t, cards.Items, 3)
	assert.Nil(t, cards.At(1))
	assert.Nil(t, cards.At(9))
	assert.Equal(t, LocalizedValue{"zh-TW": "丙"}, cards.At(2).Get("label").Locales)

	b, err := json.Marshal(ov)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cards":[{"label":{"en":"A"}},null,{"label":{"zh-TW":"丙"}}]}`, string(b))
}

func TestOverrideMapUnmarshalJSON(t *testing.T) {
	var ov OverrideMap
	err := json.Unmarshal([]byte(`{
		"hero": {"title": {"en": "Hello", "zh-TW": ""}},
		"cards": [null, {"label": {"en": "B"}}, "junk", {}],
		"empty": {},
		"junk": "x"
	}`), &ov)
	require.NoError(t, err)

	assert.Equal(t, LocalizedValue{"en": "Hello", "zh-TW": ""}, ov.Get("hero").Get("title").Locales)
	cards := ov.Get("cards")
	require.Len(t, cards.Items, 2)
	assert.Nil(t, cards.At(0))
	assert.Equal(t, LocalizedValue{"en": "B"}, cards.At(1).Get("label").Locales)
	assert.Nil(t, ov.Get("empty"))
	assert.Nil(t, ov.Get("junk"))
}

func TestOverrideMapJSONRoundTrip(t *testing.T) {
	e := NewEngine(testLocales)
	raw := decode(t, `{"hero":{"title":{"zh-CN":"你好","en":"Hello"}},"cards":[{"label":{"zh-CN":"甲"}},{"label":{"en":"B"}}]}`)
	ov := e.Extract(raw, homeSchema())

	b, err := json.Marshal(ov)
	require.NoError(t, err)
	var back OverrideMap
	require.NoError(t, json.Unmarshal(b, &back))

	assert.Equal(t, ov, &back)
}

func TestOverrideMapNilSafety(t *testing.T) {
	var ov *OverrideMap
	assert.True(t, ov.IsEmpty())
	assert.Nil(t, ov.Get("x"))
	assert.Nil(t, ov.At(0))
}

package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"site-cms/pkg/models"
)

func heroSchema() *models.PageSchema {
	return &models.PageSchema{
		Name: "hero",
		Fields: []models.Field{
			{Name: "hero", Widget: models.WidgetObject, Fields: []models.Field{
				{Name: "title", Widget: models.WidgetLocalized},
			}},
		},
	}
}

func homeSchema() *models.PageSchema {
	return &models.PageSchema{
		Name: "home",
		Fields: []models.Field{
			{Name: "hero", Widget: models.WidgetObject, Fields: []models.Field{
				{Name: "title", Widget: models.WidgetLocalized},
				{Name: "subtitle", Widget: models.WidgetLocalized, Clean: models.CleanDropEmpty},
				{Name: "image", Widget: models.WidgetString},
			}},
			{Name: "cards", Widget: models.WidgetList, Prefix: "card", Seed: []string{"slug"}, Fields: []models.Field{
				{Name: "slug", Widget: models.WidgetString},
				{Name: "label", Widget: models.WidgetLocalized},
			}},
			{Name: "price", Widget: models.WidgetNumber, Default: 10},
			{Name: "published", Widget: models.WidgetBoolean},
			{Name: "note", Widget: models.WidgetString, OmitEmpty: true},
			{Name: "cta", Widget: models.WidgetLocalized, Default: map[string]interface{}{"zh-CN": "了解更多", "en": "Learn more"}},
		},
	}
}

func decode(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func canonical(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := Canonical(v)
	require.NoError(t, err)
	return string(b)
}

func ids(list interface{}) []string {
	var out []string
	for _, it := range list.(List) {
		out = append(out, it.ID)
	}
	return out
}

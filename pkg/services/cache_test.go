package services

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-cms/pkg/models"
)

func newTestCache(t *testing.T) *PageCache {
	t.Helper()
	cms := &models.CMSConfig{
		Locales: testLocales,
		Pages: []models.PageSchema{
			{Name: "home", Label: "Home", Fields: []models.Field{
				{Name: "title", Widget: models.WidgetLocalized},
			}},
			{Name: "products", Label: "Products", Collection: true, Fields: []models.Field{
				{Name: "summary", Widget: models.WidgetString},
				{Name: "name", Widget: models.WidgetLocalized},
			}},
			{Name: "footer", Label: "Footer"},
		},
	}
	return &PageCache{
		Store:       newTestStore(t, "json"),
		CMS:         cms,
		Engine:      NewEngine(testLocales),
		Concurrency: 2,
	}
}

func TestPageCacheList(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Store.Write(ctx, "home", "", map[string]interface{}{"title": map[string]interface{}{"zh-CN": "首页", "en": "Home"}}))
	require.NoError(t, c.Store.Write(ctx, "products", "b-widget", map[string]interface{}{"name": map[string]interface{}{"en": "Widget"}}))
	require.NoError(t, c.Store.Write(ctx, "products", "a-gadget", map[string]interface{}{}))

	pages, err := c.List(ctx)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, models.PageSummary{Page: "home", Path: pages[0].Path, Title: "首页", Format: "json"}, pages[0])
	assert.Equal(t, "a-gadget", pages[1].Slug)
	assert.Equal(t, "a-gadget", pages[1].Title)
	assert.Equal(t, "b-widget", pages[2].Slug)
	assert.Equal(t, "Widget", pages[2].Title)
}

func TestPageCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	pages, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)

	require.NoError(t, c.Store.Write(ctx, "footer", "", map[string]interface{}{}))
	pages, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages, "served from cache")

	c.Invalidate()
	pages, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Footer", pages[0].Title)
}

func TestPageCacheLogsUnreadablePages(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	c := newTestCache(t)
	dir := filepath.Join(c.Store.Dir, "products")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	pages, err := c.List(context.Background())
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "broken", pages[0].Title)
	assert.Contains(t, buf.String(), "broken.json")
}

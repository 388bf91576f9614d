package services

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"site-cms/pkg/models"

	"golang.org/x/sync/errgroup"
)

// PageCache lists the stored pages for the admin overview. It is rebuilt
// lazily after Invalidate.
type PageCache struct {
	Store       *PageStore
	CMS         *models.CMSConfig
	Engine      *Engine
	RepoPath    string
	Concurrency int

	mu     sync.Mutex
	pages  []models.PageSummary
	loaded bool
}

func (c *PageCache) List(ctx context.Context) ([]models.PageSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.pages, nil
	}

	var pages []models.PageSummary
	schemas := make([]*models.PageSchema, 0)
	for i := range c.CMS.Pages {
		schema := &c.CMS.Pages[i]
		found, err := c.scan(schema)
		if err != nil {
			return nil, err
		}
		for range found {
			schemas = append(schemas, schema)
		}
		pages = append(pages, found...)
	}

	g, ctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := c.Store.Read(pages[i].Page, pages[i].Slug)
			if err != nil {
				log.Printf("page list: skipping title of %s: %v", pages[i].Path, err)
				return nil
			}
			if title := c.titleOf(raw, schemas[i]); title != "" {
				pages[i].Title = title
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dirtyFiles, _ := getGitDirtyFiles(c.RepoPath)
	for i := range pages {
		if rel, err := filepath.Rel(c.RepoPath, pages[i].Path); err == nil {
			pages[i].IsDirty = dirtyFiles[filepath.ToSlash(rel)]
		}
	}

	c.pages = pages
	c.loaded = true
	return c.pages, nil
}

func (c *PageCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.pages = nil
}

func (c *PageCache) scan(schema *models.PageSchema) ([]models.PageSummary, error) {
	if !schema.Collection {
		path, format, exists, err := c.Store.Locate(schema.Name, "")
		if err != nil || !exists {
			return nil, err
		}
		return []models.PageSummary{{Page: schema.Name, Path: path, Title: schema.Label, Format: format}}, nil
	}

	dir := filepath.Join(c.Store.Dir, schema.Name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	seen := make(map[string]bool)
	var out []models.PageSummary
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := FormatForPath(entry.Name())
		if !ok {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, models.PageSummary{
			Page:   schema.Name,
			Slug:   slug,
			Path:   filepath.Join(dir, entry.Name()),
			Title:  slug,
			Format: format,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// titleOf picks the default-locale text of the page's title field, or of its
// first localized field.
func (c *PageCache) titleOf(raw map[string]interface{}, schema *models.PageSchema) string {
	doc := c.Engine.Normalize(raw, schema)
	if f, ok := models.Lookup(schema.Fields, "title"); ok && f.Widget == models.WidgetLocalized {
		if record, ok := doc[f.Name].(LocalizedValue); ok {
			return GetText(record, c.Engine.Locales.Default, "", c.Engine.Locales)
		}
	}
	for _, f := range schema.Fields {
		if f.Widget != models.WidgetLocalized {
			continue
		}
		if record, ok := doc[f.Name].(LocalizedValue); ok {
			if title := GetText(record, c.Engine.Locales.Default, "", c.Engine.Locales); title != "" {
				return title
			}
		}
	}
	return ""
}

func getGitDirtyFiles(dir string) (map[string]bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	dirty := make(map[string]bool)
	lines := strings.Split(string(out), "\n")
	for _, line := range lines {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		path = strings.Trim(path, "\"")
		dirty[path] = true
	}
	return dirty, nil
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"site-cms/pkg/models"
	"site-cms/pkg/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const localeSessionKey = "locale"

// API serves the page editors.
type API struct {
	CMS      *models.CMSConfig
	Engine   *services.Engine
	Store    *services.PageStore
	Cache    *services.PageCache
	RepoPath string
	GitToken string
}

type pageRequest struct {
	Page      string                 `json:"page"`
	Slug      string                 `json:"slug"`
	Document  map[string]interface{} `json:"document"`
	Overrides *services.OverrideMap  `json:"overrides"`
}

func (a *API) Register(r gin.IRouter) {
	r.GET("/config", a.GetConfig)
	r.GET("/pages", a.ListPages)
	r.GET("/page", a.GetPage)
	r.POST("/page", a.SavePage)
	r.POST("/page/dirty", a.CheckDirty)
	r.GET("/locale", a.GetLocale)
	r.POST("/locale", a.SetLocale)
	r.POST("/sync", a.HandleSync)
	r.POST("/publish", a.HandlePublish)
}

func (a *API) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locales": a.Engine.Locales, "pages": a.CMS.Pages})
}

func (a *API) ListPages(c *gin.Context) {
	pages, err := a.Cache.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pages: " + err.Error()})
		return
	}
	if pages == nil {
		pages = []models.PageSummary{}
	}
	c.JSON(http.StatusOK, pages)
}

func (a *API) GetPage(c *gin.Context) {
	page, slug := c.Query("page"), c.Query("slug")
	schema, err := a.schemaFor(page, slug)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	raw, err := a.Store.Read(page, slug)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Failed to read page: " + err.Error()})
		return
	}

	s := a.Engine.Open(raw, schema)
	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"slug":      slug,
		"document":  s.Document(),
		"overrides": s.Overrides(),
		"locales":   a.Engine.Locales,
		"locale":    a.activeLocale(c),
	})
}

func (a *API) SavePage(c *gin.Context) {
	s, req, ok := a.openEdited(c)
	if !ok {
		return
	}
	res := s.Save(c.Request.Context(), a.Store.Writer(req.Page, req.Slug))
	if !res.OK() {
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	a.Cache.Invalidate()
	c.JSON(http.StatusOK, res)
}

func (a *API) CheckDirty(c *gin.Context) {
	s, _, ok := a.openEdited(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"dirty": s.IsDirty()})
}

// openEdited loads the stored page as the baseline and applies the posted
// document and overrides on top of it.
func (a *API) openEdited(c *gin.Context) (*services.Session, pageRequest, bool) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return nil, req, false
	}
	if req.Document == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing document"})
		return nil, req, false
	}
	schema, err := a.schemaFor(req.Page, req.Slug)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, req, false
	}
	raw, err := a.Store.Read(req.Page, req.Slug)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Failed to read page: " + err.Error()})
		return nil, req, false
	}
	s := a.Engine.Open(raw, schema)
	s.Replace(services.Object(req.Document), req.Overrides)
	return s, req, true
}

func (a *API) GetLocale(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locale": a.activeLocale(c), "locales": a.Engine.Locales})
}

func (a *API) SetLocale(c *gin.Context) {
	var req struct {
		Locale string `json:"locale"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	code, ok := a.Engine.Locales.Lookup(req.Locale)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported locale: " + req.Locale})
		return
	}
	session := sessions.Default(c)
	session.Set(localeSessionKey, code)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locale": code})
}

// activeLocale is the editing tab the browser last selected.
func (a *API) activeLocale(c *gin.Context) string {
	if v, ok := sessions.Default(c).Get(localeSessionKey).(string); ok {
		if code, ok := a.Engine.Locales.Lookup(v); ok {
			return code
		}
	}
	return a.Engine.Locales.Default
}

func (a *API) HandleSync(c *gin.Context) {
	log, err := services.SyncRepo(c.Request.Context(), a.RepoPath, a.GitToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	a.Cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}

func (a *API) HandlePublish(c *gin.Context) {
	log, err := services.PublishRepo(c.Request.Context(), a.RepoPath, a.GitToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": log})
		return
	}
	a.Cache.Invalidate()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": log})
}

func (a *API) schemaFor(page, slug string) (*models.PageSchema, error) {
	schema, ok := a.CMS.Page(page)
	if !ok {
		return nil, fmt.Errorf("%w: %q", services.ErrUnknownPage, page)
	}
	if schema.Collection && slug == "" {
		return nil, fmt.Errorf("%w: %q needs a slug", services.ErrUnknownPage, page)
	}
	if !schema.Collection && slug != "" {
		return nil, fmt.Errorf("%w: %q has no slugs", services.ErrUnknownPage, page)
	}
	return schema, nil
}

func statusFor(err error) int {
	if errors.Is(err, services.ErrUnknownPage) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

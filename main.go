package main

import (
	"log"

	"site-cms/pkg/config"
	"site-cms/pkg/handlers"
	"site-cms/pkg/models"
	"site-cms/pkg/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize config
	config.Init()

	locales := models.NewLocales(config.DefaultLocale, config.SupportedLocales)
	cms, err := services.LoadCMSConfig(config.SchemaPath, locales)
	if err != nil {
		log.Fatalf("failed to load page schemas from %s: %v", config.SchemaPath, err)
	}

	engine := services.NewEngine(cms.Locales)
	store := services.NewPageStore(config.ContentDir, config.ContentFormat)
	api := &handlers.API{
		CMS:    cms,
		Engine: engine,
		Store:  store,
		Cache: &services.PageCache{
			Store:       store,
			CMS:         cms,
			Engine:      engine,
			RepoPath:    config.RepoPath,
			Concurrency: config.CacheConcurrency,
		},
		RepoPath: config.RepoPath,
		GitToken: config.GitToken,
	}

	r := gin.Default()

	// Session Setup
	sessionStore := cookie.NewStore([]byte(config.SessionSecret))
	r.Use(sessions.Sessions("site-cms", sessionStore))

	api.Register(r.Group("/api"))

	log.Printf("site-cms listening on %s (default locale %s)", config.Addr, cms.Locales.Default)
	if err := r.Run(config.Addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	Addr       = ":8080"
	RepoPath   = "./repo"
	ContentDir = "./repo/data/pages"
	SchemaPath = "./config/pages.yml"

	// Locale settings. SupportedLocales is in fallback priority order.
	DefaultLocale    = "zh-CN"
	SupportedLocales = []string{"zh-CN", "en", "zh-TW"}

	// Format used when a page has never been saved before: json, yaml or toml.
	ContentFormat = "json"

	// Cache settings
	CacheConcurrency = 20

	SessionSecret = "site-cms-dev-secret"

	// Git settings
	GitToken     = ""
	GitUserEmail = "bot@site-cms.local"
	GitUserName  = "Site CMS Bot"
	GitBranch    = "main"
	GitRemote    = "origin"
)

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	Addr = getEnv("APP_ADDR", ":8080")
	RepoPath = getEnv("REPO_PATH", "./repo")
	ContentDir = getEnv("CONTENT_DIR", filepath.Join(RepoPath, "data", "pages"))
	SchemaPath = getEnv("SCHEMA_PATH", "./config/pages.yml")

	DefaultLocale = getEnv("DEFAULT_LOCALE", "zh-CN")
	SupportedLocales = getEnvList("SUPPORTED_LOCALES", []string{"zh-CN", "en", "zh-TW"})
	ContentFormat = getEnv("CONTENT_FORMAT", "json")

	SessionSecret = getEnv("SESSION_SECRET", "site-cms-dev-secret")

	GitToken = getEnv("GIT_TOKEN", "")
	GitUserEmail = getEnv("GIT_USER_EMAIL", "bot@site-cms.local")
	GitUserName = getEnv("GIT_USER_NAME", "Site CMS Bot")
	GitBranch = getEnv("GIT_BRANCH", "main")
	GitRemote = getEnv("GIT_REMOTE", "origin")

	if cc := os.Getenv("CACHE_CONCURRENCY"); cc != "" {
		if val, err := strconv.Atoi(cc); err == nil {
			CacheConcurrency = val
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvList reads a comma separated list, dropping blank entries.
func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

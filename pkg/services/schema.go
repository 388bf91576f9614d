package services

import (
	"fmt"
	"os"

	"site-cms/pkg/models"

	"gopkg.in/yaml.v3"
)

// LoadCMSConfig reads the page schema declaration. Locales declared in the
// file are canonicalized; when none are declared fallback is used.
func LoadCMSConfig(path string, fallback models.Locales) (*models.CMSConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCMSConfig(content, fallback)
}

func ParseCMSConfig(content []byte, fallback models.Locales) (*models.CMSConfig, error) {
	var cfg models.CMSConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse cms config: %w", err)
	}
	if cfg.Locales.Default == "" && len(cfg.Locales.Supported) == 0 {
		cfg.Locales = fallback
	} else {
		cfg.Locales = models.NewLocales(cfg.Locales.Default, cfg.Locales.Supported)
	}
	seen := make(map[string]bool, len(cfg.Pages))
	for _, p := range cfg.Pages {
		if p.Name == "" {
			return nil, fmt.Errorf("parse cms config: page without name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("parse cms config: duplicate page %q", p.Name)
		}
		seen[p.Name] = true
		if err := validateFields(p.Name, p.Fields); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func validateFields(scope string, fields []models.Field) error {
	for _, f := range fields {
		switch f.Widget {
		case models.WidgetLocalized, models.WidgetString, models.WidgetNumber, models.WidgetBoolean, "":
		case models.WidgetObject, models.WidgetList:
			if err := validateFields(scope+"."+f.Name, f.Fields); err != nil {
				return err
			}
		default:
			return fmt.Errorf("parse cms config: %s.%s: unknown widget %q", scope, f.Name, f.Widget)
		}
		switch f.Clean {
		case "", models.CleanKeepEmpty, models.CleanDropEmpty:
		default:
			return fmt.Errorf("parse cms config: %s.%s: unknown clean policy %q", scope, f.Name, f.Clean)
		}
	}
	return nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is written into every saved page envelope.
const SchemaVersion = 1

// Envelope keys around a saved page.
const (
	envelopeVersion = "schema_version"
	envelopeUpdated = "updated_at"
	envelopeContent = "content"
)

// Extensions tried, in order, when locating a page file.
var formatExtensions = []struct {
	ext    string
	format string
}{
	{".json", "json"},
	{".yaml", "yaml"},
	{".yml", "yaml"},
	{".toml", "toml"},
}

func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// FormatForPath maps a file extension to a document format.
func FormatForPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, fe := range formatExtensions {
		if fe.ext == ext {
			return fe.format, true
		}
	}
	return "", false
}

// ParseDocument decodes a page file in the given format.
func ParseDocument(content []byte, format string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if len(bytes.TrimSpace(content)) == 0 {
		return map[string]interface{}{}, nil
	}
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(content, &doc)
	case "yaml":
		err = yaml.Unmarshal(content, &doc)
	case "toml":
		err = toml.Unmarshal(content, &doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s document: %w", format, err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return sanitizeDocument(doc), nil
}

// EncodeDocument renders a page document in the given format.
func EncodeDocument(doc map[string]interface{}, format string) ([]byte, error) {
	if doc == nil {
		doc = map[string]interface{}{}
	}
	var buf bytes.Buffer
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	case "toml":
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// Unwrap returns the page content inside a saved envelope. Documents written
// before envelopes existed are returned as they are.
func Unwrap(doc map[string]interface{}) map[string]interface{} {
	if _, ok := doc[envelopeVersion]; !ok {
		return doc
	}
	if content := asMap(doc[envelopeContent]); content != nil {
		return content
	}
	return map[string]interface{}{}
}

func sanitizeDocument(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return nil
	}
	sanitized := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		sanitized[k] = sanitizeValue(v)
	}
	return sanitized
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeDocument(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeValue(v[i])
		}
		return slice
	case []map[string]interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeDocument(v[i])
		}
		return slice
	default:
		return v
	}
}

// PageStore keeps one file per page, or per page and slug for collection
// pages, under Dir.
type PageStore struct {
	Dir           string
	DefaultFormat string

	mu  sync.Mutex
	now func() time.Time
}

func NewPageStore(dir, defaultFormat string) *PageStore {
	if defaultFormat == "" {
		defaultFormat = "json"
	}
	return &PageStore{Dir: dir, DefaultFormat: defaultFormat, now: time.Now}
}

// Locate returns the file for a page and its format. When no file exists yet
// the path uses the default format and exists is false.
func (s *PageStore) Locate(page, slug string) (path, format string, exists bool, err error) {
	base, err := s.basePath(page, slug)
	if err != nil {
		return "", "", false, err
	}
	for _, fe := range formatExtensions {
		candidate := base + fe.ext
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, fe.format, true, nil
		}
	}
	ext := "." + s.DefaultFormat
	if s.DefaultFormat == "yaml" {
		ext = ".yaml"
	}
	return base + ext, s.DefaultFormat, false, nil
}

func (s *PageStore) basePath(page, slug string) (string, error) {
	if page == "" || strings.ContainsAny(page, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	if slug == "" {
		p := SafeJoin(s.Dir, "", page)
		if p == "" {
			return "", fmt.Errorf("%w: %q", ErrUnknownPage, page)
		}
		return p, nil
	}
	if strings.ContainsAny(slug, `/\`) {
		return "", fmt.Errorf("%w: invalid slug %q", ErrUnknownPage, slug)
	}
	p := SafeJoin(s.Dir, page, slug)
	if p == "" {
		return "", fmt.Errorf("%w: invalid slug %q", ErrUnknownPage, slug)
	}
	return p, nil
}

// Read returns the stored content of a page, or an empty document when the
// page was never saved.
func (s *PageStore) Read(page, slug string) (map[string]interface{}, error) {
	path, format, exists, err := s.Locate(page, slug)
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[string]interface{}{}, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	doc, err := ParseDocument(content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Unwrap(doc), nil
}

// Write stores payload inside a versioned envelope, keeping the format of an
// existing file.
func (s *PageStore) Write(ctx context.Context, page, slug string, payload map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, format, _, err := s.Locate(page, slug)
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	envelope := map[string]interface{}{
		envelopeVersion: SchemaVersion,
		envelopeUpdated: s.clock().UTC().Format(time.RFC3339),
		envelopeContent: payload,
	}
	content, err := EncodeDocument(envelope, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}
	log.Printf("saved page %s (%s)", path, format)
	return nil
}

func (s *PageStore) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Writer binds Write to one page for a Session.
func (s *PageStore) Writer(page, slug string) PageWriter {
	return PageWriterFunc(func(ctx context.Context, payload map[string]interface{}) error {
		return s.Write(ctx, page, slug, payload)
	})
}

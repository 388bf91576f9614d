package models

// Field widgets understood by the normalizer and serializer.
const (
	WidgetLocalized = "localized"
	WidgetString    = "string"
	WidgetNumber    = "number"
	WidgetBoolean   = "boolean"
	WidgetObject    = "object"
	WidgetList      = "list"
)

// Clean policies for localized fields.
const (
	CleanKeepEmpty = "keep-empty"
	CleanDropEmpty = "drop-empty"
)

type CMSConfig struct {
	Locales Locales      `yaml:"locales" json:"locales"`
	Pages   []PageSchema `yaml:"pages" json:"pages"`
}

// PageSchema describes one editable page type. Pages with Collection set
// are stored once per slug, e.g. one document per product.
type PageSchema struct {
	Name       string  `yaml:"name" json:"name"`
	Label      string  `yaml:"label" json:"label"`
	Collection bool    `yaml:"collection" json:"collection"`
	Fields     []Field `yaml:"fields" json:"fields"`
}

type Field struct {
	Name    string      `yaml:"name" json:"name"`
	Label   string      `yaml:"label,omitempty" json:"label,omitempty"`
	Widget  string      `yaml:"widget" json:"widget"`
	Default interface{} `yaml:"default,omitempty" json:"default,omitempty"`

	// Fields of an object, or of each element of a list.
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Seed lists the element fields used to derive list item ids, in order.
	Seed []string `yaml:"seed,omitempty" json:"seed,omitempty"`
	// Prefix for list item ids; the field name when empty.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	Clean     string `yaml:"clean,omitempty" json:"clean,omitempty"`
	OmitEmpty bool   `yaml:"omit_empty,omitempty" json:"omit_empty,omitempty"`
}

// Page returns the schema with the given name.
func (c *CMSConfig) Page(name string) (*PageSchema, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Pages {
		if c.Pages[i].Name == name {
			return &c.Pages[i], true
		}
	}
	return nil, false
}

// Lookup returns the direct child field with the given name.
func Lookup(fields []Field, name string) (*Field, bool) {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i], true
		}
	}
	return nil, false
}

// IDPrefix is the prefix used for ids of list items.
func (f *Field) IDPrefix() string {
	if f.Prefix != "" {
		return f.Prefix
	}
	return f.Name
}

// KeepsEmpty reports whether an explicitly empty localized value is persisted.
func (f *Field) KeepsEmpty() bool {
	return f.Clean != CleanDropEmpty
}

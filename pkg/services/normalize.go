package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"site-cms/pkg/models"
)

// itemIDKey carries a list item's id in the editor's JSON. It is never persisted.
const itemIDKey = "_id"

// Engine runs normalization, override extraction, serialization and merging
// for one locale configuration.
type Engine struct {
	Locales models.Locales
}

func NewEngine(loc models.Locales) *Engine {
	return &Engine{Locales: loc}
}

// Object is an editing document or a nested object inside one. Values are
// LocalizedValue, string, float64, bool, Object or List depending on the
// field's widget.
type Object map[string]interface{}

// Item is one element of an ordered list. ID only keys the item during an
// editing session.
type Item struct {
	ID     string
	Fields Object
}

type List []Item

func (it Item) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(it.Fields)+1)
	for k, v := range it.Fields {
		m[k] = v
	}
	m[itemIDKey] = it.ID
	return json.Marshal(m)
}

// Normalize turns an untrusted persisted document into an editing document.
// It never fails: missing or mistyped values become the field's default or
// the widget's zero value.
func (e *Engine) Normalize(raw interface{}, schema *models.PageSchema) Object {
	if schema == nil {
		return Object{}
	}
	return e.normalizeObject(asMap(raw), schema.Fields)
}

func (e *Engine) normalizeObject(m map[string]interface{}, fields []models.Field) Object {
	out := make(Object, len(fields))
	for i := range fields {
		f := &fields[i]
		raw, ok := m[f.Name]
		out[f.Name] = e.normalizeValue(raw, ok && raw != nil, f)
	}
	return out
}

func (e *Engine) normalizeValue(raw interface{}, present bool, f *models.Field) interface{} {
	if !present && f.Default != nil {
		raw = f.Default
	}
	switch f.Widget {
	case models.WidgetLocalized:
		return EnsureRecord(raw, e.Locales)
	case models.WidgetNumber:
		if n, ok := toFloat(raw); ok {
			return n
		}
		n, _ := toFloat(f.Default)
		return n
	case models.WidgetBoolean:
		if b, ok := raw.(bool); ok {
			return b
		}
		b, _ := f.Default.(bool)
		return b
	case models.WidgetObject:
		return e.normalizeObject(asMap(raw), f.Fields)
	case models.WidgetList:
		return e.normalizeList(raw, f)
	default:
		s, _ := raw.(string)
		return s
	}
}

func (e *Engine) normalizeList(raw interface{}, f *models.Field) List {
	elems := asSlice(raw)
	out := make(List, 0, len(elems))
	used := make(map[string]bool, len(elems))
	for i, el := range elems {
		m := asMap(el)
		fields := e.normalizeObject(m, f.Fields)

		id, _ := m[itemIDKey].(string)
		if id == "" {
			id = AssignID(f.IDPrefix(), e.seedFor(fields, f), i)
		}
		if used[id] {
			base := id
			for n := i; used[id]; n++ {
				id = base + "-" + strconv.Itoa(n)
			}
		}
		used[id] = true
		out = append(out, Item{ID: id, Fields: fields})
	}
	return out
}

// seedFor picks the content an item id is derived from: the configured seed
// fields in order, then the item's first localized label. Text that leaves
// nothing after slugifying is skipped.
func (e *Engine) seedFor(fields Object, f *models.Field) string {
	for _, name := range f.Seed {
		if s := e.textOf(fields[name]); slugify(s) != "" {
			return s
		}
	}
	for i := range f.Fields {
		if f.Fields[i].Widget != models.WidgetLocalized {
			continue
		}
		if s := e.textOf(fields[f.Fields[i].Name]); slugify(s) != "" {
			return s
		}
		break
	}
	return ""
}

func (e *Engine) textOf(v interface{}) string {
	switch t := v.(type) {
	case string:
		if !isBlank(t) {
			return t
		}
	case LocalizedValue:
		return GetText(t, e.Locales.Default, "", e.Locales)
	}
	return ""
}

func asMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case Object:
		return m
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, inner := range m {
			out[fmt.Sprint(k)] = inner
		}
		return out
	}
	return nil
}

func asSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return s
	case List:
		out := make([]interface{}, len(s))
		for i, it := range s {
			m := make(map[string]interface{}, len(it.Fields)+1)
			for k, inner := range it.Fields {
				m[k] = inner
			}
			m[itemIDKey] = it.ID
			out[i] = m
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}
	return nil
}

// toFloat accepts any decoder number type. Infinities and NaN, which YAML
// and TOML can express but JSON cannot, are not numbers.
func toFloat(v interface{}) (float64, bool) {
	f, ok := numberOf(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func numberOf(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

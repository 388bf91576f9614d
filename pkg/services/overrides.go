package services

import (
	"bytes"
	"encoding/json"

	"site-cms/pkg/models"
)

// OverrideMap holds the non-default locale text of a document, shaped like
// the document itself. A node is a localized leaf (Locales), an object
// (Fields) or a list (Items). List entries are aligned by position, not by
// item id, and a nil entry means the item has no overrides.
type OverrideMap struct {
	Locales LocalizedValue
	Fields  map[string]*OverrideMap
	Items   []*OverrideMap
}

// IsEmpty reports whether the node carries no locale text at all.
func (o *OverrideMap) IsEmpty() bool {
	if o == nil {
		return true
	}
	if len(o.Locales) > 0 {
		return false
	}
	for _, child := range o.Fields {
		if !child.IsEmpty() {
			return false
		}
	}
	for _, child := range o.Items {
		if !child.IsEmpty() {
			return false
		}
	}
	return true
}

// Get returns the child node for a field name, or nil.
func (o *OverrideMap) Get(name string) *OverrideMap {
	if o == nil {
		return nil
	}
	return o.Fields[name]
}

// At returns the node at list position i, or nil.
func (o *OverrideMap) At(i int) *OverrideMap {
	if o == nil || i < 0 || i >= len(o.Items) {
		return nil
	}
	return o.Items[i]
}

// MarshalJSON renders leaves as locale objects, lists as arrays with null
// holes and objects as field maps.
func (o *OverrideMap) MarshalJSON() ([]byte, error) {
	switch {
	case o.Locales != nil:
		return json.Marshal(map[string]string(o.Locales))
	case o.Items != nil:
		return json.Marshal(o.Items)
	case o.Fields != nil:
		return json.Marshal(o.Fields)
	}
	return []byte("{}"), nil
}

// UnmarshalJSON reads the form written by MarshalJSON. An object whose values
// are all strings is a leaf; inner objects only ever hold objects and arrays.
// Values that fit neither shape are skipped.
func (o *OverrideMap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = OverrideMap{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '[':
		var items []*OverrideMap
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		for i, item := range items {
			if item.IsEmpty() {
				items[i] = nil
			}
		}
		o.Items = trimTrailingNil(items)
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if locales, ok := stringEntries(raw); ok {
			o.Locales = locales
			return nil
		}
		for k, msg := range raw {
			msg = bytes.TrimSpace(msg)
			if len(msg) == 0 || (msg[0] != '{' && msg[0] != '[') {
				continue
			}
			child := &OverrideMap{}
			if err := json.Unmarshal(msg, child); err != nil {
				return err
			}
			if child.IsEmpty() {
				continue
			}
			if o.Fields == nil {
				o.Fields = make(map[string]*OverrideMap)
			}
			o.Fields[k] = child
		}
	}
	return nil
}

func stringEntries(raw map[string]json.RawMessage) (LocalizedValue, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	out := make(LocalizedValue, len(raw))
	for k, msg := range raw {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, false
		}
		out[k] = s
	}
	return out, true
}

func trimTrailingNil(items []*OverrideMap) []*OverrideMap {
	n := len(items)
	for n > 0 && items[n-1] == nil {
		n--
	}
	if n == 0 {
		return nil
	}
	return items[:n]
}

// Extract collects the non-default locale text of raw. Only supported locales
// with non-blank text are kept and subtrees without any are left out, so the
// result is sparse. It is never nil.
func (e *Engine) Extract(raw interface{}, schema *models.PageSchema) *OverrideMap {
	return e.extract(raw, schema, false)
}

// extract is Extract, optionally keeping translations that were explicitly
// cleared. Editing sessions keep them so a cleared locale stays cleared
// across later saves instead of falling back to another locale.
func (e *Engine) extract(raw interface{}, schema *models.PageSchema, keepCleared bool) *OverrideMap {
	if schema == nil {
		return &OverrideMap{}
	}
	if ov := e.extractObject(asMap(raw), schema.Fields, keepCleared); ov != nil {
		return ov
	}
	return &OverrideMap{}
}

func (e *Engine) extractObject(m map[string]interface{}, fields []models.Field, keepCleared bool) *OverrideMap {
	var children map[string]*OverrideMap
	for i := range fields {
		f := &fields[i]
		raw, ok := m[f.Name]
		if (!ok || raw == nil) && f.Default != nil {
			raw = f.Default
		}
		child := e.extractValue(raw, f, keepCleared)
		if child == nil {
			continue
		}
		if children == nil {
			children = make(map[string]*OverrideMap)
		}
		children[f.Name] = child
	}
	if children == nil {
		return nil
	}
	return &OverrideMap{Fields: children}
}

func (e *Engine) extractValue(raw interface{}, f *models.Field, keepCleared bool) *OverrideMap {
	switch f.Widget {
	case models.WidgetLocalized:
		record := EnsureRecord(raw, e.Locales)
		var kept LocalizedValue
		for code, text := range record {
			if code == e.Locales.Default || (isBlank(text) && !keepCleared) {
				continue
			}
			if kept == nil {
				kept = LocalizedValue{}
			}
			kept[code] = text
		}
		if kept == nil {
			return nil
		}
		return &OverrideMap{Locales: kept}
	case models.WidgetObject:
		return e.extractObject(asMap(raw), f.Fields, keepCleared)
	case models.WidgetList:
		elems := asSlice(raw)
		items := make([]*OverrideMap, len(elems))
		for i, el := range elems {
			items[i] = e.extractObject(asMap(el), f.Fields, keepCleared)
		}
		if items = trimTrailingNil(items); items == nil {
			return nil
		}
		return &OverrideMap{Items: items}
	}
	return nil
}

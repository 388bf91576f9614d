package services

import "site-cms/pkg/models"

// Serialize converts an editing document back into its persisted form for
// the default locale. Item ids and undeclared keys are dropped; other
// locales are restored afterwards by Merge.
func (e *Engine) Serialize(doc Object, schema *models.PageSchema) map[string]interface{} {
	if schema == nil {
		return map[string]interface{}{}
	}
	return e.serializeObject(doc, schema.Fields)
}

func (e *Engine) serializeObject(m map[string]interface{}, fields []models.Field) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for i := range fields {
		f := &fields[i]
		if v, keep := e.serializeValue(m[f.Name], f); keep {
			out[f.Name] = v
		}
	}
	return out
}

func (e *Engine) serializeValue(v interface{}, f *models.Field) (interface{}, bool) {
	switch f.Widget {
	case models.WidgetLocalized:
		record := EnsureRecord(v, e.Locales)
		current := LocalizedValue{}
		if text, ok := record[e.Locales.Default]; ok {
			current[e.Locales.Default] = text
		}
		persisted := CleanForPersist(current, f.Clean)
		if len(persisted) == 0 && omitEmpty(f) {
			return nil, false
		}
		out := make(map[string]interface{}, len(persisted))
		for k, text := range persisted {
			out[k] = text
		}
		return out, true
	case models.WidgetNumber:
		n, _ := toFloat(v)
		return n, true
	case models.WidgetBoolean:
		b, _ := v.(bool)
		return b, true
	case models.WidgetObject:
		obj := e.serializeObject(asMap(v), f.Fields)
		if omitEmpty(f) && len(obj) == 0 {
			return nil, false
		}
		return obj, true
	case models.WidgetList:
		elems := asSlice(v)
		if len(elems) == 0 && omitEmpty(f) {
			return nil, false
		}
		out := make([]interface{}, len(elems))
		for i, el := range elems {
			out[i] = e.serializeObject(asMap(el), f.Fields)
		}
		return out, true
	default:
		s, _ := v.(string)
		if s == "" && omitEmpty(f) {
			return nil, false
		}
		return s, true
	}
}


// omitEmpty reports whether an empty value of f may be left out. Fields with
// a default are always written, or the default would refill a cleared value
// on the next load.
func omitEmpty(f *models.Field) bool {
	return f.OmitEmpty && f.Default == nil
}

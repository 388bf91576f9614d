package services

// Merge lays overrides onto a serialized document. Override locales replace
// the same locales in the document; everything else, including the default
// locale, is kept. Lists are matched by position: overrides past the end of a
// list are unused and new trailing items get none. Inputs are not modified;
// untouched subtrees are shared with serialized.
func (e *Engine) Merge(serialized map[string]interface{}, overrides *OverrideMap) map[string]interface{} {
	if m := asMap(e.mergeNode(serialized, overrides)); m != nil {
		return m
	}
	return map[string]interface{}{}
}

func (e *Engine) mergeNode(base interface{}, ov *OverrideMap) interface{} {
	if ov.IsEmpty() {
		return base
	}
	switch {
	case ov.Locales != nil:
		return e.mergeLocales(base, ov.Locales)
	case ov.Items != nil:
		list, ok := base.([]interface{})
		if !ok {
			return base
		}
		out := make([]interface{}, len(list))
		copy(out, list)
		for i := range out {
			if child := ov.At(i); !child.IsEmpty() {
				out[i] = e.mergeNode(list[i], child)
			}
		}
		return out
	default:
		m := asMap(base)
		if base != nil && m == nil {
			return base
		}
		out := make(map[string]interface{}, len(m)+len(ov.Fields))
		for k, v := range m {
			out[k] = v
		}
		for k, child := range ov.Fields {
			if child.IsEmpty() {
				continue
			}
			if merged := e.mergeNode(m[k], child); merged != nil {
				out[k] = merged
			}
		}
		if base == nil && len(out) == 0 {
			return nil
		}
		return out
	}
}

func (e *Engine) mergeLocales(base interface{}, locales LocalizedValue) interface{} {
	var out map[string]interface{}
	switch b := base.(type) {
	case nil:
		out = map[string]interface{}{}
	case string:
		out = map[string]interface{}{e.Locales.Default: b}
	default:
		m := asMap(base)
		if m == nil {
			return base
		}
		out = make(map[string]interface{}, len(m)+len(locales))
		for k, v := range m {
			out[k] = v
		}
	}
	for k, text := range locales {
		code, ok := e.Locales.Lookup(k)
		if !ok || code == e.Locales.Default {
			continue
		}
		out[code] = text
	}
	if base == nil && len(out) == 0 {
		return nil
	}
	return out
}

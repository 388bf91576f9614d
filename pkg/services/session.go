package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"site-cms/pkg/models"
)

// PageWriter persists a merged page payload.
type PageWriter interface {
	WritePage(ctx context.Context, payload map[string]interface{}) error
}

// PageWriterFunc adapts a function to PageWriter.
type PageWriterFunc func(ctx context.Context, payload map[string]interface{}) error

func (f PageWriterFunc) WritePage(ctx context.Context, payload map[string]interface{}) error {
	return f(ctx, payload)
}

type SaveResult struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

func (r SaveResult) OK() bool {
	return r.Status == "saved"
}

// Session is one editor's working state for a page: the editing document,
// the override map and the baseline of the last load or save. Edits replace
// only the objects along the edited path, so earlier states stay valid and
// Discard is a pointer swap. A Session must not be used concurrently.
type Session struct {
	engine *Engine
	schema *models.PageSchema

	document  Object
	overrides *OverrideMap

	savedDocument  Object
	savedOverrides *OverrideMap
	tracker        *DirtyTracker
}

// Open starts an editing session from a persisted document.
func (e *Engine) Open(raw interface{}, schema *models.PageSchema) *Session {
	s := &Session{engine: e, schema: schema}
	s.Reload(raw)
	return s
}

// Reload discards all state and starts over from raw.
func (s *Session) Reload(raw interface{}) {
	s.document = s.engine.Normalize(raw, s.schema)
	s.overrides = s.engine.extract(raw, s.schema, true)
	s.savedDocument = s.document
	s.savedOverrides = s.overrides
	s.tracker = NewDirtyTracker(s.Payload())
}

func (s *Session) Document() Object { return s.document }

func (s *Session) Overrides() *OverrideMap { return s.overrides }

func (s *Session) Schema() *models.PageSchema { return s.schema }

// Replace swaps in a document and override map edited elsewhere, e.g. posted
// back by the browser. A nil override map keeps the current one.
func (s *Session) Replace(doc Object, overrides *OverrideMap) {
	s.document = s.engine.Normalize(doc, s.schema)
	if overrides != nil {
		s.overrides = overrides
	}
}

// Payload is the merged document that a save would write.
func (s *Session) Payload() map[string]interface{} {
	return s.engine.Merge(s.engine.Serialize(s.document, s.schema), s.overrides)
}

func (s *Session) IsDirty() bool {
	return s.tracker.IsDirty(s.Payload())
}

// Discard drops unsaved edits.
func (s *Session) Discard() {
	s.document = s.savedDocument
	s.overrides = s.savedOverrides
}

// Save writes the merged payload. On failure nothing changes, so saving again
// writes the same payload.
func (s *Session) Save(ctx context.Context, w PageWriter) SaveResult {
	payload := s.Payload()
	if err := w.WritePage(ctx, payload); err != nil {
		return SaveResult{Status: "error", Message: err.Error()}
	}
	s.savedDocument = s.document
	s.savedOverrides = s.overrides
	s.tracker.Reset(payload)
	return SaveResult{Status: "saved", Payload: payload}
}

// SetText sets localized text at path. Default locale edits change the
// document only; other locales are also recorded in the override map at the
// same position, since Serialize keeps only the default locale.
func (s *Session) SetText(path, locale, text string) error {
	steps, f, err := s.resolve(path)
	if err != nil {
		return err
	}
	if f.Widget != models.WidgetLocalized {
		return fmt.Errorf("%w: %s is not localized text", ErrInvalidPath, path)
	}
	code, ok := s.engine.Locales.Lookup(locale)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}
	s.document = updateIn(s.document, steps, func(v interface{}) interface{} {
		return SetText(EnsureRecord(v, s.engine.Locales), text, code)
	}).(Object)
	if code != s.engine.Locales.Default {
		s.overrides = withOverride(s.overrides, steps, code, text)
	}
	return nil
}

// SetValue sets a plain string, number or boolean field.
func (s *Session) SetValue(path string, value interface{}) error {
	steps, f, err := s.resolve(path)
	if err != nil {
		return err
	}
	switch f.Widget {
	case models.WidgetLocalized, models.WidgetObject, models.WidgetList:
		return fmt.Errorf("%w: %s is not a plain value", ErrInvalidPath, path)
	}
	s.document = updateIn(s.document, steps, func(interface{}) interface{} {
		return s.engine.normalizeValue(value, value != nil, f)
	}).(Object)
	return nil
}

// InsertItem adds a default-valued item at index of the list at path and
// returns its id. Overrides are positional and are not shifted.
func (s *Session) InsertItem(path string, index int) (string, error) {
	var id string
	err := s.editList(path, func(list List, f *models.Field) (List, error) {
		if index < 0 || index > len(list) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, index)
		}
		id = NewItemID(f.IDPrefix())
		item := Item{ID: id, Fields: s.engine.normalizeObject(nil, f.Fields)}
		out := make(List, 0, len(list)+1)
		out = append(out, list[:index]...)
		out = append(out, item)
		return append(out, list[index:]...), nil
	})
	return id, err
}

// RemoveItem deletes the item at index. Overrides are positional and are not
// shifted, so later items pick up the overrides of the items before them.
func (s *Session) RemoveItem(path string, index int) error {
	return s.editList(path, func(list List, _ *models.Field) (List, error) {
		if index < 0 || index >= len(list) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, index)
		}
		out := make(List, 0, len(list)-1)
		out = append(out, list[:index]...)
		return append(out, list[index+1:]...), nil
	})
}

// MoveItem moves the item at from to position to.
func (s *Session) MoveItem(path string, from, to int) error {
	return s.editList(path, func(list List, _ *models.Field) (List, error) {
		if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
			return nil, fmt.Errorf("%w: move %d -> %d out of range", ErrInvalidPath, from, to)
		}
		out := make(List, len(list))
		copy(out, list)
		item := out[from]
		if from < to {
			copy(out[from:to], out[from+1:to+1])
		} else {
			copy(out[to+1:from+1], out[to:from])
		}
		out[to] = item
		return out, nil
	})
}

func (s *Session) editList(path string, fn func(List, *models.Field) (List, error)) error {
	steps, f, err := s.resolve(path)
	if err != nil {
		return err
	}
	if f.Widget != models.WidgetList {
		return fmt.Errorf("%w: %s is not a list", ErrInvalidPath, path)
	}
	var fnErr error
	doc := updateIn(s.document, steps, func(v interface{}) interface{} {
		list, _ := v.(List)
		out, err := fn(list, f)
		if err != nil {
			fnErr = err
			return v
		}
		return out
	})
	if fnErr != nil {
		return fnErr
	}
	s.document = doc.(Object)
	return nil
}

// pathStep is one segment of a resolved path: a field name, or a list index
// when isIndex is set.
type pathStep struct {
	name    string
	index   int
	isIndex bool
}

// resolve checks a dotted path such as "cards.2.title" against the schema
// and the current document.
func (s *Session) resolve(path string) ([]pathStep, *models.Field, error) {
	if s.schema == nil || strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	segs := strings.Split(path, ".")
	fields := s.schema.Fields
	var cur interface{} = s.document
	var steps []pathStep
	var f *models.Field
	for i := 0; i < len(segs); i++ {
		var ok bool
		f, ok = models.Lookup(fields, segs[i])
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown field %q in %q", ErrInvalidPath, segs[i], path)
		}
		steps = append(steps, pathStep{name: f.Name})
		cur = asMap(cur)[f.Name]
		if i == len(segs)-1 {
			break
		}
		switch f.Widget {
		case models.WidgetObject:
			fields = f.Fields
		case models.WidgetList:
			i++
			idx, err := strconv.Atoi(segs[i])
			list, _ := cur.(List)
			if err != nil || idx < 0 || idx >= len(list) {
				return nil, nil, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, segs[i], path)
			}
			if i == len(segs)-1 {
				return nil, nil, fmt.Errorf("%w: %q ends at a list item", ErrInvalidPath, path)
			}
			steps = append(steps, pathStep{index: idx, isIndex: true})
			cur = list[idx].Fields
			fields = f.Fields
		default:
			return nil, nil, fmt.Errorf("%w: %q has no field %q", ErrInvalidPath, f.Name, segs[i+1])
		}
	}
	return steps, f, nil
}

// updateIn returns v with fn applied at steps, copying only the maps and
// lists along the way.
func updateIn(v interface{}, steps []pathStep, fn func(interface{}) interface{}) interface{} {
	if len(steps) == 0 {
		return fn(v)
	}
	step := steps[0]
	if step.isIndex {
		list, _ := v.(List)
		out := make(List, len(list))
		copy(out, list)
		item := out[step.index]
		fields, _ := updateIn(item.Fields, steps[1:], fn).(Object)
		out[step.index] = Item{ID: item.ID, Fields: fields}
		return out
	}
	m := asMap(v)
	out := make(Object, len(m)+1)
	for k, inner := range m {
		out[k] = inner
	}
	out[step.name] = updateIn(m[step.name], steps[1:], fn)
	return out
}

// withOverride returns overrides with locale text set at steps, copying only
// the nodes along the way.
func withOverride(ov *OverrideMap, steps []pathStep, locale, text string) *OverrideMap {
	if len(steps) == 0 {
		var current LocalizedValue
		if ov != nil {
			current = ov.Locales
		}
		return &OverrideMap{Locales: SetText(current, text, locale)}
	}
	out := &OverrideMap{}
	step := steps[0]
	if step.isIndex {
		n := step.index + 1
		if ov != nil && len(ov.Items) > n {
			n = len(ov.Items)
		}
		out.Items = make([]*OverrideMap, n)
		if ov != nil {
			copy(out.Items, ov.Items)
		}
		out.Items[step.index] = withOverride(ov.At(step.index), steps[1:], locale, text)
		return out
	}
	out.Fields = make(map[string]*OverrideMap)
	if ov != nil {
		for k, child := range ov.Fields {
			out.Fields[k] = child
		}
	}
	out.Fields[step.name] = withOverride(ov.Get(step.name), steps[1:], locale, text)
	return out
}

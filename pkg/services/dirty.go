package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Canonical renders v as JSON with sorted keys, after folding the types
// YAML and TOML decoders produce into their JSON equivalents.
func Canonical(v interface{}) ([]byte, error) {
	return json.Marshal(canonicalizeValueForJSON(v))
}

// IsDirty reports whether current differs structurally from baseline.
// Values that cannot be rendered are always dirty.
func IsDirty(current, baseline interface{}) bool {
	a, err := Canonical(current)
	if err != nil {
		return true
	}
	b, err := Canonical(baseline)
	if err != nil {
		return true
	}
	return !bytes.Equal(a, b)
}

// DirtyTracker remembers the canonical payload of the last load or save.
type DirtyTracker struct {
	baseline []byte
}

func NewDirtyTracker(baseline interface{}) *DirtyTracker {
	d := &DirtyTracker{}
	d.Reset(baseline)
	return d
}

// Reset makes baseline the new clean state.
func (d *DirtyTracker) Reset(baseline interface{}) {
	b, err := Canonical(baseline)
	if err != nil {
		b = nil
	}
	d.baseline = b
}

func (d *DirtyTracker) IsDirty(current interface{}) bool {
	if d.baseline == nil {
		return true
	}
	b, err := Canonical(current)
	if err != nil {
		return true
	}
	return !bytes.Equal(b, d.baseline)
}

// Baseline returns the canonical JSON of the clean state.
func (d *DirtyTracker) Baseline() []byte {
	return d.baseline
}

func canonicalizeValueForJSON(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		canonical := make(map[string]interface{}, len(v))
		for key, inner := range v {
			canonical[key] = canonicalizeValueForJSON(inner)
		}
		return canonical
	case Object:
		return canonicalizeValueForJSON(map[string]interface{}(v))
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = canonicalizeValueForJSON(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = canonicalizeValueForJSON(v[i])
		}
		return slice
	case List:
		return canonicalizeValueForJSON(asSlice(v))
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		if n, ok := toFloat(v); ok {
			return n
		}
		return v
	}
}

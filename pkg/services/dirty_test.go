package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDirtyIgnoresKeyOrderAndNumberTypes(t *testing.T) {
	a := map[string]interface{}{"b": 1, "a": []interface{}{int64(2), "x"}}
	b := map[interface{}]interface{}{"a": []interface{}{2.0, "x"}, "b": uint8(1)}

	assert.False(t, IsDirty(a, b))
	assert.True(t, IsDirty(a, map[string]interface{}{"b": 1}))
}

func TestCanonicalFoldsEditingTypes(t *testing.T) {
	when := time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	doc := Object{
		"cards": List{{ID: "card-a", Fields: Object{"slug": "a"}}},
		"at":    when,
	}

	assert.JSONEq(t, `{"at":"2024-05-01T00:00:00Z","cards":[{"_id":"card-a","slug":"a"}]}`, canonical(t, doc))
}

func TestDirtyTracker(t *testing.T) {
	d := NewDirtyTracker(map[string]interface{}{"title": "a"})

	assert.False(t, d.IsDirty(map[string]interface{}{"title": "a"}))
	assert.True(t, d.IsDirty(map[string]interface{}{"title": "b"}))

	d.Reset(map[string]interface{}{"title": "b"})
	assert.False(t, d.IsDirty(map[string]interface{}{"title": "b"}))
	assert.JSONEq(t, `{"title":"b"}`, string(d.Baseline()))
}

func TestDirtyTrackerUnrenderableBaseline(t *testing.T) {
	d := NewDirtyTracker(map[string]interface{}{"f": func() {}})

	assert.Nil(t, d.Baseline())
	assert.True(t, d.IsDirty(map[string]interface{}{}))
}

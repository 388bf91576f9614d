package services

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// AssignID derives a list item id from a content seed such as a slug, href or
// label. Items without a usable seed fall back to their position.
func AssignID(prefix, seed string, index int) string {
	if prefix == "" {
		prefix = "item"
	}
	if s := slugify(seed); s != "" {
		return prefix + "-" + s
	}
	return prefix + "-" + strconv.Itoa(index)
}

// NewItemID returns a session-unique id for an item created in the editor,
// before it has any content to derive an id from.
func NewItemID(prefix string) string {
	if prefix == "" {
		prefix = "item"
	}
	id, err := uuid.NewV7()
	if err != nil {
		return prefix + "-" + uuid.NewString()
	}
	return prefix + "-" + id.String()
}

func slugify(seed string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(seed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

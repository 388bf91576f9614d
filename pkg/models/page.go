package models

// PageSummary represents a stored page document in the page list.
type PageSummary struct {
	Page    string `json:"page"`
	Slug    string `json:"slug,omitempty"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Format  string `json:"format"`
	IsDirty bool   `json:"is_dirty"`
}

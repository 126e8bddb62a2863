package articles

import "time"

// Article is a content item owned by exactly one category. The core only
// reads articles; the editorial workflow lives elsewhere.
type Article struct {
	ID          int64            `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Content     string           `json:"content"`
	CategoryID  int64            `json:"-"`
	Category    *CategorySummary `json:"category,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CategorySummary is the owning category embedded in article payloads.
type CategorySummary struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

package categories

import "time"

// Category owns zero or more articles. A category is visible to a principal
// only through the articles it grants; there is no category-level permission.
type Category struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithCount annotates a category with the number of articles the
// principal can actually read, not the category's total.
type CategoryWithCount struct {
	Category
	AccessibleArticlesCount int `json:"accessible_articles_count"`
}

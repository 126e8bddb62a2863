package rbac

import (
	"sort"
	"strings"
)

const articlePrefix = "article."

// Kind discriminates permission namespaces.
type Kind int

const (
	// KindUnknown marks permissions outside any recognized namespace. They
	// are carried but never grant content access.
	KindUnknown Kind = iota
	// KindArticle grants read access to a single article.
	KindArticle
)

// Permission is a parsed capability. Stored permission names remain strings
// ("article.<slug>"); parsing them once into a typed value keeps prefix
// handling in exactly one place.
type Permission struct {
	Kind Kind
	Slug string
}

// Parse interprets a stored permission name.
func Parse(name string) Permission {
	if slug, ok := strings.CutPrefix(name, articlePrefix); ok && slug != "" {
		return Permission{Kind: KindArticle, Slug: slug}
	}
	return Permission{Kind: KindUnknown}
}

// ArticleName renders the stored form of an article permission.
func ArticleName(slug string) string {
	return articlePrefix + slug
}

// AccessibleArticleSlugs derives the set of article slugs a permission list
// grants. Names are treated as an unordered set; duplicates collapse. An
// empty result is a valid outcome, not an error.
func AccessibleArticleSlugs(names []string) map[string]struct{} {
	slugs := make(map[string]struct{})
	for _, name := range names {
		if p := Parse(name); p.Kind == KindArticle {
			slugs[p.Slug] = struct{}{}
		}
	}
	return slugs
}

// SortedSlugs flattens a slug set into a slice with stable order for SQL
// parameter binding.
func SortedSlugs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for slug := range set {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

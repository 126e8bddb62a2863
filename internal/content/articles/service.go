package articles

import (
	"context"

	"github.com/readgate/readgate/internal/rbac"
	"github.com/readgate/readgate/internal/shared"
)

// Service resolves which articles a principal may see. All filtering happens
// against the principal's own permission set; client-supplied identifiers are
// never trusted to widen the query.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the page of accessible articles, optionally restricted to one
// category. An empty accessible set short-circuits before any query runs: an
// unrestricted IN-filter must never reach the database.
func (s *Service) List(ctx context.Context, principal *shared.Principal, categorySlug string, page, perPage int) ([]Article, shared.Pagination, error) {
	page, perPage = shared.NormalizePage(page, perPage)

	accessible := rbac.AccessibleArticleSlugs(principal.Permissions)
	if len(accessible) == 0 {
		return []Article{}, shared.NewPagination(page, perPage, 0), nil
	}

	items, total, err := s.repo.List(ctx, ListFilter{
		Slugs:        rbac.SortedSlugs(accessible),
		CategorySlug: categorySlug,
		Limit:        perPage,
		Offset:       shared.Offset(page, perPage),
	})
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	if items == nil {
		items = []Article{}
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// Get fetches a single article by slug. Existence is checked before
// permission, so a missing article reports NotFound regardless of grants and
// a present-but-ungranted article reports Forbidden.
func (s *Service) Get(ctx context.Context, principal *shared.Principal, slug string) (*Article, error) {
	article, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	accessible := rbac.AccessibleArticleSlugs(principal.Permissions)
	if _, ok := accessible[article.Slug]; !ok {
		return nil, shared.ErrForbidden
	}
	return article, nil
}

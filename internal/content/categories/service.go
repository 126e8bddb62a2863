package categories

import (
	"context"

	"github.com/readgate/readgate/internal/rbac"
	"github.com/readgate/readgate/internal/shared"
)

// Service resolves which categories a principal may see. Visibility is
// all-or-nothing, derived entirely from article access: a category with no
// accessible articles does not exist as far as the principal is concerned.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns categories owning at least one accessible article, each
// annotated with the accessible article count. The empty accessible set
// short-circuits to an empty page before any query runs.
func (s *Service) List(ctx context.Context, principal *shared.Principal, page, perPage int) ([]CategoryWithCount, shared.Pagination, error) {
	page, perPage = shared.NormalizePage(page, perPage)

	accessible := rbac.AccessibleArticleSlugs(principal.Permissions)
	if len(accessible) == 0 {
		return []CategoryWithCount{}, shared.NewPagination(page, perPage, 0), nil
	}

	items, total, err := s.repo.ListAccessible(ctx,
		rbac.SortedSlugs(accessible), perPage, shared.Offset(page, perPage))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	if items == nil {
		items = []CategoryWithCount{}
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// Get fetches a single visible category by slug. A category that does not
// exist and one the principal cannot see are both NotFound; unlike articles,
// nothing here ever reports Forbidden.
func (s *Service) Get(ctx context.Context, principal *shared.Principal, slug string) (*Category, error) {
	accessible := rbac.AccessibleArticleSlugs(principal.Permissions)
	if len(accessible) == 0 {
		return nil, shared.ErrNotFound
	}
	return s.repo.GetAccessibleBySlug(ctx, slug, rbac.SortedSlugs(accessible))
}

package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readgate/readgate/internal/shared"
)

// Repository defines read access to categories scoped by accessible article
// slugs. Callers guarantee slugs is non-empty.
type Repository interface {
	ListAccessible(ctx context.Context, slugs []string, limit, offset int) ([]CategoryWithCount, int, error)
	GetAccessibleBySlug(ctx context.Context, categorySlug string, slugs []string) (*Category, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListAccessible(ctx context.Context, slugs []string, limit, offset int) ([]CategoryWithCount, int, error) {
	const countQuery = `
		SELECT COUNT(DISTINCT c.id)
		FROM categories c
		JOIN articles a ON a.category_id = c.id
		WHERE a.slug = ANY($1)
	`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, slugs).Scan(&total); err != nil {
		return nil, 0, err
	}

	// The aggregate counts only accessible articles per category. Categories
	// with zero accessible articles are excluded by the join, so the count is
	// always >= 1 here.
	const query = `
		SELECT c.id, c.slug, c.name, c.description, c.created_at, c.updated_at,
		       COUNT(a.id) AS accessible_articles_count
		FROM categories c
		JOIN articles a ON a.category_id = c.id AND a.slug = ANY($1)
		GROUP BY c.id, c.slug, c.name, c.description, c.created_at, c.updated_at
		ORDER BY c.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, slugs, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []CategoryWithCount
	for rows.Next() {
		var (
			item      CategoryWithCount
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		err := rows.Scan(
			&item.ID, &item.Slug, &item.Name, &item.Description,
			&createdAt, &updatedAt, &item.AccessibleArticlesCount,
		)
		if err != nil {
			return nil, 0, err
		}
		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repository) GetAccessibleBySlug(ctx context.Context, categorySlug string, slugs []string) (*Category, error) {
	const query = `
		SELECT c.id, c.slug, c.name, c.description, c.created_at, c.updated_at
		FROM categories c
		WHERE c.slug = $1
		  AND EXISTS (
			SELECT 1 FROM articles a
			WHERE a.category_id = c.id AND a.slug = ANY($2)
		  )
	`
	var (
		cat       Category
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, categorySlug, slugs).Scan(
		&cat.ID, &cat.Slug, &cat.Name, &cat.Description, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	cat.CreatedAt = createdAt.Time
	cat.UpdatedAt = updatedAt.Time
	return &cat, nil
}

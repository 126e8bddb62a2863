package articles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readgate/readgate/internal/shared"
)

// ListFilter bounds an article listing. Slugs must be non-empty; the service
// layer never passes an empty filter down to SQL.
type ListFilter struct {
	Slugs        []string
	CategorySlug string
	Limit        int
	Offset       int
}

// Repository defines read access to articles.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Article, int, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Article, int, error) {
	conditions := "WHERE a.slug = ANY($1)"
	args := []interface{}{filter.Slugs}
	argPos := 2

	if filter.CategorySlug != "" {
		conditions += " AND c.slug = $2"
		args = append(args, filter.CategorySlug)
		argPos++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM articles a
		JOIN categories c ON c.id = a.category_id
		` + conditions
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Ordering by id keeps pagination deterministic across pages and across
	// repeated calls with unchanged data.
	query := `
		SELECT a.id, a.slug, a.title, a.description, a.content, a.category_id,
		       a.created_at, a.updated_at,
		       c.id, c.slug, c.name, c.description
		FROM articles a
		JOIN categories c ON c.id = a.category_id
		` + conditions + `
		ORDER BY a.id
		LIMIT $%d OFFSET $%d`
	query = fmt.Sprintf(query, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, article)
	}
	return items, total, rows.Err()
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	const query = `
		SELECT a.id, a.slug, a.title, a.description, a.content, a.category_id,
		       a.created_at, a.updated_at,
		       c.id, c.slug, c.name, c.description
		FROM articles a
		JOIN categories c ON c.id = a.category_id
		WHERE a.slug = $1
	`
	row := r.pool.QueryRow(ctx, query, slug)
	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func scanArticle(row pgx.Row) (Article, error) {
	var (
		a         Article
		cat       CategorySummary
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Content, &a.CategoryID,
		&createdAt, &updatedAt,
		&cat.ID, &cat.Slug, &cat.Name, &cat.Description,
	)
	if err != nil {
		return Article{}, err
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	a.Category = &cat
	return a, nil
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/readgate/readgate/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	CreateRefreshToken(ctx context.Context, rec RefreshTokenRecord) error
	// ConsumeRefreshToken atomically deletes the record matching the hash and
	// returns it. Concurrent calls with the same hash: exactly one caller
	// receives the record, the rest get shared.ErrNotFound.
	ConsumeRefreshToken(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error)
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindUserByEmail fetches a user by email.
func (r *PGRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindUserByID fetches a user by primary key.
func (r *PGRepository) FindUserByID(ctx context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// CreateRefreshToken persists a freshly minted refresh token record.
func (r *PGRepository) CreateRefreshToken(ctx context.Context, rec RefreshTokenRecord) error {
	const query = `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	now := rec.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, query,
		rec.TokenHash,
		rec.UserID,
		pgtype.Timestamptz{Time: rec.ExpiresAt.UTC(), Valid: true},
		pgtype.Timestamptz{Time: now, Valid: true},
	)
	return err
}

// ConsumeRefreshToken deletes and returns the matching record in a single
// statement. The conditional DELETE ... RETURNING is the row-level atomicity
// the rotation protocol relies on; no separate lookup ever precedes it.
func (r *PGRepository) ConsumeRefreshToken(ctx context.Context, tokenHash string) (*RefreshTokenRecord, error) {
	const query = `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1
		RETURNING token_hash, user_id, expires_at, created_at
	`
	var (
		rec       RefreshTokenRecord
		expiresAt pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&rec.TokenHash, &rec.UserID, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	rec.ExpiresAt = expiresAt.Time
	rec.CreatedAt = createdAt.Time
	return &rec, nil
}

// DeleteExpiredRefreshTokens purges records past their expiry.
func (r *PGRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at < $1`
	tag, err := r.pool.Exec(ctx, query, pgtype.Timestamptz{Time: now.UTC(), Valid: true})
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var (
		user      User
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)

package auth

import "time"

// RefreshTTL is fixed at mint time and never extended by use.
const RefreshTTL = 30 * 24 * time.Hour

// User represents an authenticated user account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshTokenRecord is the persisted half of a refresh token. Only the
// sha256 hash of the plaintext is stored. A record that exists and is
// unexpired is redeemable exactly once: redemption deletes it, so replay,
// revocation, and unknown tokens are all indistinguishable lookup misses.
type RefreshTokenRecord struct {
	TokenHash string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPair is the credential bundle returned by login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/readgate/readgate/internal/shared"
)

// AccessTokenStore keeps opaque bearer tokens server-side. The token string
// itself carries no claims or expiry; validity is purely "the key still
// exists in Redis". Logout removes every token a user holds.
type AccessTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAccessTokenStore constructs an AccessTokenStore.
func NewAccessTokenStore(client *redis.Client, ttl time.Duration) *AccessTokenStore {
	return &AccessTokenStore{client: client, ttl: ttl}
}

// Issue mints a new opaque token bound to the user.
func (s *AccessTokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	token := s.generateToken()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(token), strconv.FormatInt(userID, 10), s.ttl)
	pipe.SAdd(ctx, s.userKey(userID), token)
	// The index set outlives its members by at most one TTL window; stale
	// members are skipped on revoke.
	pipe.Expire(ctx, s.userKey(userID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("auth: issue access token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a presented bearer token to a user ID.
func (s *AccessTokenStore) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, shared.ErrInvalidCredentials
	}
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, shared.ErrInvalidCredentials
		}
		return 0, err
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, shared.ErrInvalidCredentials
	}
	return userID, nil
}

// RevokeAll deletes every access token held by the user.
func (s *AccessTokenStore) RevokeAll(ctx context.Context, userID int64) error {
	tokens, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, s.tokenKey(token))
	}
	keys = append(keys, s.userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured access token lifetime.
func (s *AccessTokenStore) TTL() time.Duration {
	return s.ttl
}

func (s *AccessTokenStore) tokenKey(token string) string {
	return "access_token:" + token
}

func (s *AccessTokenStore) userKey(userID int64) string {
	return "user_tokens:" + strconv.FormatInt(userID, 10)
}

func (s *AccessTokenStore) generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable in practice; fall back to a
		// random UUID rather than returning a guessable value.
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

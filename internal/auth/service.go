package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/readgate/readgate/internal/shared"
)

// Service implements the refresh-token rotation protocol and credential
// verification. Every failure path collapses into shared.ErrInvalidCredentials
// so callers cannot distinguish "unknown email" from "bad password" from
// "consumed token".
type Service struct {
	repo   Repository
	tokens *AccessTokenStore
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source, useful in tests.
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(repo Repository, tokens *AccessTokenStore, opts ...ServiceOption) *Service {
	svc := &Service{repo: repo, tokens: tokens, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Login verifies email/password credentials and mints a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, *User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, nil, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, nil, shared.ErrInvalidCredentials
		}
		return TokenPair{}, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, nil, shared.ErrInvalidCredentials
	}
	pair, err := s.mintPair(ctx, user.ID)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, user, nil
}

// Refresh redeems a refresh token exactly once and rotates it. The consume is
// a single conditional delete, so two concurrent calls presenting the same
// token race on the row: the loser sees an absent record and fails as if the
// token had never existed.
func (s *Service) Refresh(ctx context.Context, presented string) (TokenPair, *User, error) {
	if strings.TrimSpace(presented) == "" {
		return TokenPair{}, nil, shared.ErrInvalidCredentials
	}
	rec, err := s.repo.ConsumeRefreshToken(ctx, HashToken(presented))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, nil, shared.ErrInvalidCredentials
		}
		return TokenPair{}, nil, err
	}
	// Consuming deleted the row, which is exactly the side effect an expired
	// token needs before failing: it can never be presented again.
	if s.now().After(rec.ExpiresAt) {
		return TokenPair{}, nil, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindUserByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, nil, shared.ErrInvalidCredentials
		}
		return TokenPair{}, nil, err
	}
	pair, err := s.mintPair(ctx, user.ID)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, user, nil
}

// Logout revokes every access token the user currently holds. Refresh
// records are left alone: the model is one refresh token per login event,
// and an un-redeemed token simply ages out.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.tokens.RevokeAll(ctx, userID)
}

func (s *Service) mintPair(ctx context.Context, userID int64) (TokenPair, error) {
	accessToken, err := s.tokens.Issue(ctx, userID)
	if err != nil {
		return TokenPair{}, err
	}
	refreshPlain, err := generateRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	now := s.now().UTC()
	rec := RefreshTokenRecord{
		TokenHash: HashToken(refreshPlain),
		UserID:    userID,
		ExpiresAt: now.Add(RefreshTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateRefreshToken(ctx, rec); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshPlain}, nil
}

// HashToken derives the stored form of a refresh token. The plaintext is
// never persisted.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

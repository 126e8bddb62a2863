package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/readgate/readgate/internal/shared"
)

func TestAccessTokenIssueAndAuthenticate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewAccessTokenStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, 42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := store.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestAccessTokenUnknown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewAccessTokenStore(client, time.Hour)

	if _, err := store.Authenticate(context.Background(), "bogus"); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := store.Authenticate(context.Background(), ""); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty token, got %v", err)
	}
}

func TestAccessTokenExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewAccessTokenStore(client, time.Minute)
	ctx := context.Background()

	token, err := store.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Authenticate(ctx, token); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestAccessTokenRevokeAll(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewAccessTokenStore(client, time.Hour)
	ctx := context.Background()

	first, err := store.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue first: %v", err)
	}
	second, err := store.Issue(ctx, 7)
	if err != nil {
		t.Fatalf("issue second: %v", err)
	}
	other, err := store.Issue(ctx, 8)
	if err != nil {
		t.Fatalf("issue other: %v", err)
	}

	if err := store.RevokeAll(ctx, 7); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := store.Authenticate(ctx, first); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected first token revoked, got %v", err)
	}
	if _, err := store.Authenticate(ctx, second); err != shared.ErrInvalidCredentials {
		t.Fatalf("expected second token revoked, got %v", err)
	}

	// Revocation is scoped to the one user.
	if userID, err := store.Authenticate(ctx, other); err != nil || userID != 8 {
		t.Fatalf("expected other user's token to survive, got %d %v", userID, err)
	}
}

func TestAccessTokenRevokeAllIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewAccessTokenStore(client, time.Hour)

	if err := store.RevokeAll(context.Background(), 99); err != nil {
		t.Fatalf("revoke with no tokens: %v", err)
	}
}

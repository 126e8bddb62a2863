package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type stubPermissions struct {
	perms []string
	role  string
}

func (s stubPermissions) EffectivePermissions(context.Context, int64) ([]string, error) {
	return s.perms, nil
}

func (s stubPermissions) RoleName(context.Context, int64) (string, error) {
	return s.role, nil
}

func newProtectedRouter(t *testing.T) (chi.Router, TokenPair) {
	t.Helper()
	repo := newMemoryAuthRepo()
	seedUser(t, repo, 1, "normal@example.com", "password")
	tokens := newTestTokenStore(t)
	svc := NewService(repo, tokens)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, svc)

	pair, _, err := svc.Login(context.Background(), "normal@example.com", "password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mw := Middleware{
		Logger:      logger,
		Tokens:      tokens,
		Repo:        repo,
		Permissions: stubPermissions{perms: []string{"article.a"}, role: "normal"},
	}
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)
		h.MountProtectedRoutes(pr)
	})
	return r, pair
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthBadToken(t *testing.T) {
	r, _ := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	r, pair := newProtectedRouter(t)

	// Token without the Bearer scheme is rejected.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthAttachesPrincipal(t *testing.T) {
	r, pair := newProtectedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var profile ProfileResponse
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "normal@example.com" {
		t.Fatalf("unexpected email %q", profile.Email)
	}
	if profile.Role != "normal" {
		t.Fatalf("unexpected role %q", profile.Role)
	}
}

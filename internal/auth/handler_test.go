package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHandler(t *testing.T) (*Handler, *memoryAuthRepo) {
	t.Helper()
	repo := newMemoryAuthRepo()
	seedUser(t, repo, 1, "normal@example.com", "password")
	svc := NewService(repo, newTestTokenStore(t))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc), repo
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	h, _ := newTestHandler(t)
	r := chi.NewRouter()
	h.MountPublicRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestHandleLoginSuccess(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(t, r, "/login", map[string]string{
		"email":    "normal@example.com",
		"password": "password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success || env.Code != "0200" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Message != "Login successful" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	var tokens TokenResponse
	if err := json.Unmarshal(env.Data, &tokens); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens in response")
	}
	if tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected token type %q", tokens.TokenType)
	}
}

func TestHandleLoginInvalidCredentials(t *testing.T) {
	r := newTestRouter(t)

	// Wrong password and unknown email produce byte-identical bodies.
	wrongPassword := postJSON(t, r, "/login", map[string]string{
		"email":    "normal@example.com",
		"password": "wrong",
	})
	unknownEmail := postJSON(t, r, "/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	})

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("failure bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}

	env := decodeEnvelope(t, wrongPassword)
	if env.Success || env.Code != "0401" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestHandleLoginValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(t, r, "/login", map[string]string{"email": "not-an-email"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Code != "0422" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestHandleLoginMalformedBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandleRefreshRotation(t *testing.T) {
	r := newTestRouter(t)

	login := postJSON(t, r, "/login", map[string]string{
		"email":    "normal@example.com",
		"password": "password",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login failed: %d", login.Code)
	}
	var tokens TokenResponse
	if err := json.Unmarshal(decodeEnvelope(t, login).Data, &tokens); err != nil {
		t.Fatalf("decode login data: %v", err)
	}

	refresh := postJSON(t, r, "/refresh-token", map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	if refresh.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", refresh.Code, refresh.Body.String())
	}
	env := decodeEnvelope(t, refresh)
	if env.Message != "Token refreshed successfully" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	var rotated TokenResponse
	if err := json.Unmarshal(env.Data, &rotated); err != nil {
		t.Fatalf("decode refresh data: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The original token was consumed; replaying it fails.
	replay := postJSON(t, r, "/refresh-token", map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	if replay.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replay, got %d", replay.Code)
	}
}

func TestHandleRefreshValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := postJSON(t, r, "/refresh-token", map[string]string{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandleLogoutViaRouter(t *testing.T) {
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

	mw := &Middleware{Logger: logger, Tokens: tokens, Repo: repo, Permissions: stubPermissions{}}
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(mw.RequireAuth)
		h.MountProtectedRoutes(pr)
	})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The bearer token no longer authenticates.
	if _, err := tokens.Authenticate(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("expected access token to be revoked")
	}
}

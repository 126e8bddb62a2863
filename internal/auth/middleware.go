package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/readgate/readgate/internal/platform/httpx"
	"github.com/readgate/readgate/internal/shared"
)

// PermissionProvider supplies the resolved permission set and role for a user.
type PermissionProvider interface {
	EffectivePermissions(ctx context.Context, userID int64) ([]string, error)
	RoleName(ctx context.Context, userID int64) (string, error)
}

// Middleware authenticates bearer tokens and attaches the principal, with its
// full permission set, to the request context.
type Middleware struct {
	Logger      *slog.Logger
	Tokens      *AccessTokenStore
	Repo        Repository
	Permissions PermissionProvider
}

// RequireAuth rejects requests without a valid bearer token.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		userID, err := m.Tokens.Authenticate(r.Context(), token)
		if err != nil {
			m.fail(w, err)
			return
		}
		user, err := m.Repo.FindUserByID(r.Context(), userID)
		if err != nil {
			// A token surviving its user is possible when the account was
			// deleted; treat it as unauthenticated.
			if errors.Is(err, shared.ErrNotFound) {
				m.fail(w, shared.ErrInvalidCredentials)
				return
			}
			m.fail(w, err)
			return
		}
		var (
			perms []string
			role  string
		)
		g, gctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			perms, err = m.Permissions.EffectivePermissions(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			role, err = m.Permissions.RoleName(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			m.fail(w, err)
			return
		}
		principal := &shared.Principal{
			UserID:      user.ID,
			Email:       user.Email,
			Name:        user.Name,
			Role:        role,
			Permissions: perms,
		}
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) fail(w http.ResponseWriter, err error) {
	if !errors.Is(err, shared.ErrInvalidCredentials) && m.Logger != nil {
		m.Logger.Error("authenticate request", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

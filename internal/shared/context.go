package shared

import "context"

// Principal is the authenticated actor attached to a request. The permission
// set is resolved once per request and is immutable afterwards.
type Principal struct {
	UserID      int64
	Email       string
	Name        string
	Role        string
	Permissions []string
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context, nil when the
// request was not authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

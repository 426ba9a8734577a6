package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type contextKey string

const claimsContextKey contextKey = "authClaims"

// Claims is the authenticated caller identity extracted from a bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// ContextWithClaims stores the caller claims on the request context.
func ContextWithClaims(parent context.Context, claims Claims) context.Context {
	return context.WithValue(parent, claimsContextKey, claims)
}

// ClaimsFromContext returns the caller claims set by the auth middleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(Claims)
	return claims, ok
}

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/models"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 24 * time.Hour

// Auth holds the secret used to sign and verify bearer tokens.
type Auth struct {
	Secret string
}

// NewToken signs a bearer token for the given user.
func (a Auth) NewToken(user models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	})
	return token.SignedString([]byte(a.Secret))
}

// ParseToken verifies a bearer token and extracts the caller claims.
// Anything unexpected in the token fails closed.
func (a Auth) ParseToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Claims{}, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, fmt.Errorf("token missing required claims")
	}

	return Claims{UserID: sub, Email: email, Role: role}, nil
}

// Middleware authenticates the bearer token and stores the caller claims
// on the request context.
func (a Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "missing bearer token", nil)
			return
		}

		claims, err := a.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			zap.S().Debugw("rejected bearer token", "url", r.URL, "error", err)
			config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "invalid or expired token", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// AdminOnly rejects callers whose token does not carry the admin role.
// It must run inside Middleware.
func (a Auth) AdminOnly(next http.Handler) http.Handler {
	return a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			config.WriteError(w, http.StatusForbidden, config.CodeForbidden, "admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/models"
)

func testUser(role string) models.User {
	return models.User{
		ID:    primitive.NewObjectID(),
		Email: "buyer@example.com",
		Role:  role,
	}
}

func TestAuth_TokenRoundTrip(t *testing.T) {
	auth := api.Auth{Secret: "test-secret"}
	user := testUser(models.RoleUser)

	token, err := auth.NewToken(user)
	assert.NoError(t, err)

	claims, err := auth.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuth_ParseTokenWrongSecret(t *testing.T) {
	token, err := api.Auth{Secret: "secret-one"}.NewToken(testUser(models.RoleUser))
	assert.NoError(t, err)

	_, err = api.Auth{Secret: "secret-two"}.ParseToken(token)
	assert.Error(t, err)
}

func TestAuth_ParseTokenExpired(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"role": models.RoleUser,
		"iat":  time.Now().Add(-48 * time.Hour).Unix(),
		"exp":  time.Now().Add(-24 * time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = api.Auth{Secret: "test-secret"}.ParseToken(tokenString)
	assert.Error(t, err)
}

func TestAuth_ParseTokenRejectsUnexpectedAlg(t *testing.T) {
	// alg "none" style tokens must fail closed
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = api.Auth{Secret: "test-secret"}.ParseToken(tokenString)
	assert.Error(t, err)
}

func TestAuth_MiddlewareMissingToken(t *testing.T) {
	auth := api.Auth{Secret: "test-secret"}
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_MiddlewarePassesClaims(t *testing.T) {
	auth := api.Auth{Secret: "test-secret"}
	user := testUser(models.RoleUser)
	token, err := auth.NewToken(user)
	assert.NoError(t, err)

	var got api.Claims
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := api.ClaimsFromContext(r.Context())
		assert.True(t, ok)
		got = claims
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, user.ID.Hex(), got.UserID)
}

func TestAuth_AdminOnlyRejectsUserRole(t *testing.T) {
	auth := api.Auth{Secret: "test-secret"}
	token, err := auth.NewToken(testUser(models.RoleUser))
	assert.NoError(t, err)

	handler := auth.AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuth_AdminOnlyAllowsAdmin(t *testing.T) {
	auth := api.Auth{Secret: "test-secret"}
	token, err := auth.NewToken(testUser(models.RoleAdmin))
	assert.NoError(t, err)

	handler := auth.AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

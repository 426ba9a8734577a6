package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/api/handlers"
	"github.com/openroadmotors/dealership-api/databases/mocks"
	"github.com/openroadmotors/dealership-api/models"
)

var testAuth = api.Auth{Secret: "test-secret"}

func TestAuth_RegisterHandlerSuccess(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"email": "new@example.com"}).Return(nil, mongo.ErrNoDocuments)
	userDB.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	body, _ := json.Marshal(map[string]string{
		"email":     "New@Example.com",
		"password":  "hunter2hunter2",
		"firstName": "Jordan",
		"lastName":  "Blake",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: userDB, Auth: testAuth}.RegisterHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotContains(t, rr.Body.String(), "password")

	inserted := userDB.Calls[1].Arguments.Get(1).(models.User)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.Password), []byte("hunter2hunter2")))
}

func TestAuth_RegisterHandlerDuplicateEmail(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID: primitive.NewObjectID(), Email: "taken@example.com",
	}, nil)

	body, _ := json.Marshal(map[string]string{
		"email":    "taken@example.com",
		"password": "hunter2hunter2",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: userDB, Auth: testAuth}.RegisterHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT", resp.Code)
	userDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestAuth_RegisterHandlerShortPassword(t *testing.T) {
	body, _ := json.Marshal(map[string]string{
		"email":    "new@example.com",
		"password": "short",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: &mocks.UserDatabase{}, Auth: testAuth}.RegisterHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuth_LoginHandlerSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    "buyer@example.com",
		Password: string(hash),
		Role:     models.RoleUser,
	}

	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"email": "buyer@example.com"}).Return(user, nil)

	body, _ := json.Marshal(map[string]string{
		"email":    "buyer@example.com",
		"password": "hunter2hunter2",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: userDB, Auth: testAuth}.LoginHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	claims, err := testAuth.ParseToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestAuth_LoginHandlerWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(&models.User{
		ID: primitive.NewObjectID(), Email: "buyer@example.com", Password: string(hash),
	}, nil)

	body, _ := json.Marshal(map[string]string{
		"email":    "buyer@example.com",
		"password": "wrong-password",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: userDB, Auth: testAuth}.LoginHandler(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_LoginHandlerUnknownEmail(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	body, _ := json.Marshal(map[string]string{
		"email":    "nobody@example.com",
		"password": "hunter2hunter2",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: userDB, Auth: testAuth}.LoginHandler(rr, req)

	// same response as a wrong password, no account enumeration
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "invalid email or password", resp.Error)
}

func TestAuth_MeHandlerReturnsAccount(t *testing.T) {
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "buyer@example.com",
		Role:  models.RoleUser,
	}
	userDB := &mocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"_id": user.ID}).Return(user, nil)

	req := authedRequest("GET", "/api/v1/auth/me", nil, userClaims(user.ID))

	rr := httptest.NewRecorder()
	handlers.Auth{DB: userDB, Auth: testAuth}.MeHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, user.ID, got.ID)
}

func TestAuth_MeHandlerMissingClaims(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)

	rr := httptest.NewRecorder()
	handlers.Auth{DB: &mocks.UserDatabase{}, Auth: testAuth}.MeHandler(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

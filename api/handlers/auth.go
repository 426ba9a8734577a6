package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
)

// Auth exported for testing purposes
type Auth struct {
	DB   databases.UserDatabase
	Auth api.Auth
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// RegisterHandler creates a new customer account. Every account created
// here gets the user role; admins are promoted separately.
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "a valid email is required", nil)
		return
	}
	if len(req.Password) < 8 {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "password must be at least 8 characters", nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err == nil {
		config.WriteError(w, http.StatusConflict, config.CodeConflict, "an account with this email already exists", nil)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to check existing account", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to hash password", err)
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleUser,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := a.DB.InsertOne(ctx, user); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to create account", err)
		return
	}

	token, err := a.Auth.NewToken(user)
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to sign token", err)
		return
	}

	zap.S().Infow("account created", "userID", user.ID.Hex())
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{Token: token, User: user})
}

// LoginHandler verifies credentials and issues a bearer token. Wrong email
// and wrong password are indistinguishable to the caller.
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "invalid email or password", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "invalid email or password", nil)
		return
	}

	token, err := a.Auth.NewToken(*user)
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to sign token", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(authResponse{Token: token, User: *user})
}

// MeHandler returns the authenticated caller's account.
func (a Auth) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := api.ClaimsFromContext(r.Context())
	if !ok {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "missing caller identity", nil)
		return
	}

	uID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "invalid caller identity", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "account not found", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
}

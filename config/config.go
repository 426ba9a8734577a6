package config

import (
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/models"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	JWTSecret    string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:          os.Getenv("DB_URI"),
		DatabaseName: os.Getenv("DB_NAME"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         os.Getenv("PORT"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
	}

}

// Stable machine-readable error codes returned in the error envelope.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeDatabaseError       = "DATABASE_ERROR"
)

// WriteError logs the error and writes the standard error envelope with the
// given status and machine-readable code. Internal error detail stays in the
// logs; the client only sees code + message.
func WriteError(w http.ResponseWriter, httpStatusCode int, code, message string, err error) {
	if err != nil {
		zap.S().Errorw(message, "code", code, "error", err)
	} else {
		zap.S().Warnw(message, "code", code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

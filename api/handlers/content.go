package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
)

// Content exported for testing purposes
type Content struct {
	DB databases.ContentDatabase
}

// ContentHandler returns the public site content. A missing document is
// served as empty content, not an error.
func (c Content) ContentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	content, err := c.DB.Get(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			content = &models.SiteContent{}
		} else {
			config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get site content", err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(content)
}

// UpdateContentHandler replaces the site content document.
func (c Content) UpdateContentHandler(w http.ResponseWriter, r *http.Request) {
	var content models.SiteContent
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.DB.Upsert(ctx, content); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to update site content", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(content)
}

package search

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
)

// Customer searches orders by the buyer details captured at order time.
type Customer struct {
	DB databases.OrderDatabase
}

// CustomerSearchHandler returns orders whose customer name or email matches
// the q query parameter, newest first.
func (c Customer) CustomerSearchHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "q query parameter is required", nil)
		return
	}

	zap.S().Debugw("customer search", "q", q)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{
		"$or": []bson.M{
			{"customerName": bson.M{"$regex": q, "$options": "i"}},
			{"customerEmail": bson.M{"$regex": q, "$options": "i"}},
		},
	}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to search orders", err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Order{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

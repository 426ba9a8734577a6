package search

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
)

// Vin looks vehicles up by their VIN, for the back office.
type Vin struct {
	DB databases.VehicleDatabase
}

// VinSearchHandler returns the single vehicle matching the vin query
// parameter. VINs are stored uppercase so the lookup is case-insensitive
// from the caller's point of view.
func (v Vin) VinSearchHandler(w http.ResponseWriter, r *http.Request) {
	vin := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("vin")))
	if vin == "" {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "vin query parameter is required", nil)
		return
	}

	zap.S().Debugw("vin search", "vin", vin)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	vehicle, err := v.DB.FindOne(ctx, bson.M{"vin": vin})
	if err != nil {
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "no vehicle with that vin", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(vehicle)
}

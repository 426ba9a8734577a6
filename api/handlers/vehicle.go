package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
)

const defaultPageSize = 20

// Vehicle exported for testing purposes
type Vehicle struct {
	DB databases.VehicleDatabase
}

// pagination reads limit/page query params, falling back to sane defaults.
func pagination(r *http.Request) (limit int64, skip int64) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.ParseInt(raw, 10, 64); err == nil && page > 0 {
			skip = page * limit
		}
	}
	return limit, skip
}

// VehicleHandler returns the vehicle catalog, optionally filtered by a
// free-text search and/or status.
func (v Vehicle) VehicleHandler(w http.ResponseWriter, r *http.Request) {
	limit, skip := pagination(r)

	filter := bson.M{}
	if q := r.URL.Query().Get("q"); q != "" {
		regex := bson.M{"$regex": q, "$options": "i"}
		filter["$or"] = []bson.M{
			{"make": regex},
			{"model": regex},
			{"color": regex},
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := v.DB.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit).SetSkip(skip))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get vehicles", err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Vehicle{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to marshal response", err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// VehicleByIDHandler returns a vehicle by ID
func (v Vehicle) VehicleByIDHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid vehicle id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := v.DB.FindOne(ctx, bson.M{"_id": vID})
	if err != nil {
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "vehicle not found", err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to marshal response", err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateVehicleHandler creates a vehicle listing. New vehicles always start
// out available regardless of what the request carries.
func (v Vehicle) CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}

	if vehicle.Make == "" || vehicle.Model == "" {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "make and model are required", nil)
		return
	}
	if vehicle.Price < 0 {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "price must not be negative", nil)
		return
	}

	vehicle.ID = primitive.NewObjectID()
	vehicle.Status = models.VehicleStatusAvailable
	vehicle.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	vehicle.UpdatedAt = vehicle.CreatedAt

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := v.DB.InsertOne(ctx, vehicle)
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to create vehicle", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle created successfully",
		"id":      vehicle.ID.Hex(),
	})
}

// UpdateVehicleHandler updates a vehicle's listing details. The status
// field is never writable here; it only moves through the order lifecycle.
func (v Vehicle) UpdateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid vehicle id", err)
		return
	}

	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}
	if vehicle.Price < 0 {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "price must not be negative", nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = v.DB.UpdateOne(ctx, bson.M{"_id": vID}, bson.M{"$set": bson.M{
		"make":                vehicle.Make,
		"model":               vehicle.Model,
		"year":                vehicle.Year,
		"price":               vehicle.Price,
		"mileage":             vehicle.Mileage,
		"fuelType":            vehicle.FuelType,
		"transmission":        vehicle.Transmission,
		"engineSize":          vehicle.EngineSize,
		"color":               vehicle.Color,
		"interiorType":        vehicle.InteriorType,
		"vin":                 vehicle.VIN,
		"description":         vehicle.Description,
		"safetyFeatures":      vehicle.SafetyFeatures,
		"entertainmentSystem": vehicle.EntertainmentSystem,
		"updatedAt":           primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to update vehicle", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle updated successfully",
	})
}

// DeleteVehicleHandler deletes a vehicle by ID
func (v Vehicle) DeleteVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid vehicle id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = v.DB.DeleteOne(ctx, bson.M{"_id": vID})
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to delete vehicle", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle deleted successfully",
	})
}

// UploadVehicleImageHandler uploads a listing photo to Cloudinary and
// appends the hosted URL to the vehicle's image list.
func (v Vehicle) UploadVehicleImageHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid vehicle id", err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "image file is required", err)
		return
	}
	defer file.Close()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeUpstreamUnavailable, "failed to initialize image host", err)
		return
	}

	uploadResp, err := cld.Upload.Upload(r.Context(), file, uploader.UploadParams{
		Folder:   "vehicles",
		PublicID: vID.Hex() + "-" + strconv.FormatInt(time.Now().Unix(), 10),
	})
	if err != nil {
		config.WriteError(w, http.StatusBadGateway, config.CodeUpstreamUnavailable, "failed to upload image", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = v.DB.UpdateOne(ctx, bson.M{"_id": vID}, bson.M{
		"$push": bson.M{"images": uploadResp.SecureURL},
		"$set":  bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())},
	})
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to save image url", err)
		return
	}

	zap.S().Infow("vehicle image uploaded", "vehicleID", vID.Hex(), "url", uploadResp.SecureURL)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"url": uploadResp.SecureURL,
	})
}

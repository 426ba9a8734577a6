package handlers

import (
	"encoding/json"
	"net/http"

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

// Admin exported for testing purposes
type Admin struct {
	UserDB    databases.UserDatabase
	OrderDB   databases.OrderDatabase
	VehicleDB databases.VehicleDatabase
}

type dashboardResponse struct {
	TotalVehicles     int64 `json:"totalVehicles"`
	AvailableVehicles int64 `json:"availableVehicles"`
	SoldVehicles      int64 `json:"soldVehicles"`
	TotalOrders       int64 `json:"totalOrders"`
	OpenOrders        int64 `json:"openOrders"`
	PaidOrders        int64 `json:"paidOrders"`
	TotalUsers        int64 `json:"totalUsers"`
	Revenue           int64 `json:"revenue"`
}

// DashboardHandler returns the headline counts for the admin dashboard.
func (a Admin) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var resp dashboardResponse
	var err error

	if resp.TotalVehicles, err = a.VehicleDB.CountDocuments(ctx, bson.M{}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count vehicles", err)
		return
	}
	if resp.AvailableVehicles, err = a.VehicleDB.CountDocuments(ctx, bson.M{"status": models.VehicleStatusAvailable}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count available vehicles", err)
		return
	}
	if resp.SoldVehicles, err = a.VehicleDB.CountDocuments(ctx, bson.M{"status": models.VehicleStatusSold}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count sold vehicles", err)
		return
	}
	if resp.TotalOrders, err = a.OrderDB.CountDocuments(ctx, bson.M{}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count orders", err)
		return
	}
	if resp.OpenOrders, err = a.OrderDB.CountDocuments(ctx, bson.M{"status": bson.M{"$in": []string{
		models.OrderStatusCreated, models.OrderStatusAwaitingPayment,
	}}}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count open orders", err)
		return
	}
	if resp.PaidOrders, err = a.OrderDB.CountDocuments(ctx, bson.M{"status": bson.M{"$in": []string{
		models.OrderStatusPaid, models.OrderStatusFulfilled,
	}}}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count paid orders", err)
		return
	}
	if resp.TotalUsers, err = a.UserDB.CountDocuments(ctx, bson.M{}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to count users", err)
		return
	}

	paid, err := a.OrderDB.Find(ctx, bson.M{"status": bson.M{"$in": []string{
		models.OrderStatusPaid, models.OrderStatusFulfilled,
	}}})
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get paid orders", err)
		return
	}
	for i := range paid {
		resp.Revenue += paid[i].TotalAmount
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// UsersHandler returns all registered users.
func (a Admin) UsersHandler(w http.ResponseWriter, r *http.Request) {
	limit, skip := pagination(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	users, err := a.UserDB.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(skip))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get users", err)
		return
	}
	if len(users) == 0 {
		users = []models.User{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRoleHandler promotes or demotes a user.
func (a Admin) UpdateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid user id", err)
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "role must be user or admin", nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.UserDB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": bson.M{"role": req.Role}}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to update user role", err)
		return
	}

	zap.S().Infow("user role updated", "userID", uID.Hex(), "role", req.Role)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "User role updated successfully",
	})
}

// DeleteUserHandler removes a user account.
func (a Admin) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid user id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.UserDB.DeleteOne(ctx, bson.M{"_id": uID}); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to delete user", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "User deleted successfully",
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/api/checkout"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
)

// Order exported for testing purposes
type Order struct {
	DB       databases.OrderDatabase
	VDB      databases.VehicleDatabase
	Notifier checkout.Notifier
}

type createOrderRequest struct {
	VehicleID       string `json:"vehicleID"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	FinancingNeeded bool   `json:"financingNeeded"`
}

// CreateOrderHandler places an order for a vehicle. The vehicle moves
// available -> reserved in the same guarded update that decides the race,
// so two buyers can never hold the same vehicle.
func (o Order) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := api.ClaimsFromContext(r.Context())
	if !ok {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "missing caller identity", nil)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "invalid caller identity", err)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "customer name and email are required", nil)
		return
	}

	vID, err := primitive.ObjectIDFromHex(req.VehicleID)
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid vehicle id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	vehicle, err := o.VDB.TransitionStatus(ctx, vID, models.VehicleStatusAvailable, models.VehicleStatusReserved)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to reserve vehicle", err)
			return
		}
		// no available vehicle matched: distinguish missing from taken
		if _, findErr := o.VDB.FindOne(ctx, bson.M{"_id": vID}); findErr != nil {
			config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "vehicle not found", findErr)
			return
		}
		config.WriteError(w, http.StatusConflict, config.CodeConflict, "vehicle is no longer available", nil)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	order := models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		VehicleID:       vehicle.ID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		FinancingNeeded: req.FinancingNeeded,
		Status:          models.OrderStatusCreated,
		TotalAmount:     vehicle.Price,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := o.DB.InsertOne(ctx, order); err != nil {
		// release the reservation so the vehicle is not stranded
		if _, relErr := o.VDB.TransitionStatus(ctx, vID, models.VehicleStatusReserved, models.VehicleStatusAvailable); relErr != nil {
			zap.S().Errorw("failed to release vehicle after order insert failure",
				"vehicleID", vID.Hex(), "error", relErr)
		}
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to create order", err)
		return
	}

	zap.S().Infow("order placed",
		"orderID", order.ID.Hex(), "vehicleID", vehicle.ID.Hex(), "userID", userID.Hex())
	if o.Notifier != nil {
		o.Notifier.BroadcastOrderStatus(order)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// MyOrdersHandler returns the caller's orders, newest first.
func (o Order) MyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := api.ClaimsFromContext(r.Context())
	if !ok {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "missing caller identity", nil)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "invalid caller identity", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := o.DB.Find(ctx, bson.M{"userID": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get orders", err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Order{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

// OrdersHandler returns all orders for the admin view, newest first and
// optionally filtered by status.
func (o Order) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	limit, skip := pagination(r)

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := o.DB.Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(skip))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get orders", err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Order{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

// OrderByIDHandler returns an order. Customers can only read their own
// orders; admins can read any.
func (o Order) OrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := api.ClaimsFromContext(r.Context())
	if !ok {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "missing caller identity", nil)
		return
	}

	oID, err := primitive.ObjectIDFromHex(mux.Vars(r)["order_id"])
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid order id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	order, err := o.DB.FindOne(ctx, bson.M{"_id": oID})
	if err != nil {
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "order not found", err)
		return
	}
	if claims.Role != models.RoleAdmin && order.UserID.Hex() != claims.UserID {
		config.WriteError(w, http.StatusForbidden, config.CodeForbidden, "not your order", nil)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(order)
}

// CancelOrderHandler cancels an open order and releases its vehicle back
// to available. Paid and fulfilled orders cannot be cancelled here.
func (o Order) CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := api.ClaimsFromContext(r.Context())
	if !ok {
		config.WriteError(w, http.StatusUnauthorized, config.CodeUnauthorized, "missing caller identity", nil)
		return
	}

	oID, err := primitive.ObjectIDFromHex(mux.Vars(r)["order_id"])
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "invalid order id", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := o.DB.FindOne(ctx, bson.M{"_id": oID})
	if err != nil {
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "order not found", err)
		return
	}
	if claims.Role != models.RoleAdmin && existing.UserID.Hex() != claims.UserID {
		config.WriteError(w, http.StatusForbidden, config.CodeForbidden, "not your order", nil)
		return
	}

	order, err := o.DB.TransitionStatus(ctx, oID,
		[]string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}, models.OrderStatusCancelled)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to cancel order", err)
			return
		}
		// The order may already be cancelled, for example when a retry comes
		// in after the cancel succeeded but the vehicle release failed. Treat
		// that as success and make sure the vehicle is released.
		current, ferr := o.DB.FindOne(ctx, bson.M{"_id": oID})
		if ferr != nil || current.Status != models.OrderStatusCancelled {
			config.WriteError(w, http.StatusConflict, config.CodeInvalidState, "order can no longer be cancelled", nil)
			return
		}
		order = current
	}

	if _, err := o.VDB.TransitionStatus(ctx, order.VehicleID,
		models.VehicleStatusReserved, models.VehicleStatusAvailable); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to release vehicle", err)
		return
	}

	zap.S().Infow("order cancelled", "orderID", order.ID.Hex(), "vehicleID", order.VehicleID.Hex())
	if o.Notifier != nil {
		o.Notifier.BroadcastOrderStatus(*order)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(order)
}

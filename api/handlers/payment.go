package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/api/checkout"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/models"
)

// Payment exported for testing purposes
type Payment struct {
	Coordinator *checkout.Coordinator
}

// writeCheckoutError maps coordinator errors onto the error envelope.
func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrOrderNotFound):
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "order not found", nil)
	case errors.Is(err, checkout.ErrSessionNotFound):
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "checkout session not found", nil)
	case errors.Is(err, checkout.ErrInvalidState):
		config.WriteError(w, http.StatusConflict, config.CodeInvalidState, "order is not in a payable state", nil)
	case errors.Is(err, checkout.ErrProviderUnavailable):
		config.WriteError(w, http.StatusBadGateway, config.CodeUpstreamUnavailable, "payment provider unavailable, try again", err)
	default:
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "payment operation failed", err)
	}
}

// CreateCheckoutSessionHandler opens a hosted checkout session for the
// caller's order and returns the redirect URL.
func (p Payment) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
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

	order, err := p.Coordinator.Orders.FindOne(ctx, bson.M{"_id": oID})
	if err != nil {
		config.WriteError(w, http.StatusNotFound, config.CodeNotFound, "order not found", err)
		return
	}
	if claims.Role != models.RoleAdmin && order.UserID.Hex() != claims.UserID {
		config.WriteError(w, http.StatusForbidden, config.CodeForbidden, "not your order", nil)
		return
	}

	result, err := p.Coordinator.BeginCheckout(ctx, oID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessionId": result.SessionID,
		"url":       result.URL,
		"amount":    result.Amount,
	})
}

// PaymentStatusHandler reconciles a checkout session against the provider
// and returns its settled state. Polling this endpoint repeatedly is safe;
// the order is only ever settled once.
func (p Payment) PaymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	session, err := p.Coordinator.ReconcileSession(ctx, sessionID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	order, err := p.Coordinator.Orders.FindOne(ctx, bson.M{"_id": session.OrderID})
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get order for session", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessionId":     session.ID,
		"paymentStatus": session.Status,
		"orderId":       order.ID.Hex(),
		"orderStatus":   order.Status,
		"amount":        session.Amount,
	})
}

// StripeWebhookHandler receives asynchronous session events from Stripe.
// The webhook is just a reconcile trigger; the status poll and the sweeper
// converge on the same result without it.
func (p Payment) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to read webhook payload", err)
		return
	}

	var event stripe.Event
	if secret := os.Getenv("STRIPE_WEBHOOK_SECRET"); secret != "" {
		event, err = webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), secret)
		if err != nil {
			config.WriteError(w, http.StatusBadRequest, config.CodeUnauthorized, "invalid webhook signature", err)
			return
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode webhook payload", err)
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired", "checkout.session.async_payment_succeeded":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode session event", err)
			return
		}

		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()

		if _, err := p.Coordinator.ReconcileSession(ctx, session.ID); err != nil {
			// 5xx so Stripe retries; the sweeper is the backstop
			zap.S().Errorw("failed to reconcile session from webhook",
				"sessionID", session.ID, "eventType", event.Type, "error", err)
			config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to process event", err)
			return
		}
	default:
		zap.S().Debugw("ignoring webhook event", "eventType", event.Type)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"received": true})
}

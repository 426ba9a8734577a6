package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openroadmotors/dealership-api/api/checkout"
	"github.com/openroadmotors/dealership-api/api/handlers"
	"github.com/openroadmotors/dealership-api/databases/mocks"
	"github.com/openroadmotors/dealership-api/models"
	"github.com/openroadmotors/dealership-api/payments"
	paymocks "github.com/openroadmotors/dealership-api/payments/mocks"
)

type paymentFixture struct {
	orders   *mocks.OrderDatabase
	sessions *mocks.CheckoutSessionDatabase
	vehicles *mocks.VehicleDatabase
	provider *paymocks.Provider
	handler  handlers.Payment
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		orders:   &mocks.OrderDatabase{},
		sessions: &mocks.CheckoutSessionDatabase{},
		vehicles: &mocks.VehicleDatabase{},
		provider: &paymocks.Provider{},
	}
	f.handler = handlers.Payment{Coordinator: &checkout.Coordinator{
		Orders:   f.orders,
		Sessions: f.sessions,
		Vehicles: f.vehicles,
		Provider: f.provider,
		BaseURL:  "https://dealership.test",
	}}
	return f
}

func TestPayment_CreateCheckoutSessionHandlerOrderNotFound(t *testing.T) {
	f := newPaymentFixture()
	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	oID := primitive.NewObjectID()
	req := authedRequest("POST", "/api/v1/orders/"+oID.Hex()+"/checkout", nil, userClaims(primitive.NewObjectID()))
	req = mux.SetURLVars(req, map[string]string{"order_id": oID.Hex()})

	rr := httptest.NewRecorder()
	f.handler.CreateCheckoutSessionHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPayment_CreateCheckoutSessionHandlerForbidden(t *testing.T) {
	f := newPaymentFixture()
	order := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Status: models.OrderStatusCreated,
	}
	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(order, nil)

	req := authedRequest("POST", "/api/v1/orders/"+order.ID.Hex()+"/checkout", nil, userClaims(primitive.NewObjectID()))
	req = mux.SetURLVars(req, map[string]string{"order_id": order.ID.Hex()})

	rr := httptest.NewRecorder()
	f.handler.CreateCheckoutSessionHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	f.provider.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestPayment_CreateCheckoutSessionHandlerInvalidState(t *testing.T) {
	f := newPaymentFixture()
	uID := primitive.NewObjectID()
	order := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: uID,
		Status: models.OrderStatusCancelled,
	}
	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(order, nil)
	f.orders.On("TransitionStatus", mock.Anything, order.ID,
		[]string{models.OrderStatusCreated}, models.OrderStatusAwaitingPayment).Return(nil, mongo.ErrNoDocuments)

	req := authedRequest("POST", "/api/v1/orders/"+order.ID.Hex()+"/checkout", nil, userClaims(uID))
	req = mux.SetURLVars(req, map[string]string{"order_id": order.ID.Hex()})

	rr := httptest.NewRecorder()
	f.handler.CreateCheckoutSessionHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_STATE", resp.Code)
}

func TestPayment_CreateCheckoutSessionHandlerSuccess(t *testing.T) {
	f := newPaymentFixture()
	uID := primitive.NewObjectID()
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      uID,
		VehicleID:   primitive.NewObjectID(),
		Status:      models.OrderStatusCreated,
		TotalAmount: 2499900,
	}
	awaiting := *order
	awaiting.Status = models.OrderStatusAwaitingPayment

	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(order, nil)
	f.orders.On("TransitionStatus", mock.Anything, order.ID,
		[]string{models.OrderStatusCreated}, models.OrderStatusAwaitingPayment).Return(&awaiting, nil)
	f.vehicles.On("FindOne", mock.Anything, mock.Anything).Return(&models.Vehicle{
		ID: order.VehicleID, Make: "Toyota", Model: "Camry", Year: 2022,
	}, nil)
	f.provider.On("CreateSession", mock.Anything, mock.Anything).Return(&payments.Session{
		ID: "cs_test_123", URL: "https://checkout.test/cs_test_123",
	}, nil)
	f.sessions.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	req := authedRequest("POST", "/api/v1/orders/"+order.ID.Hex()+"/checkout", nil, userClaims(uID))
	req = mux.SetURLVars(req, map[string]string{"order_id": order.ID.Hex()})

	rr := httptest.NewRecorder()
	f.handler.CreateCheckoutSessionHandler(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_123", resp["sessionId"])
	assert.Equal(t, "https://checkout.test/cs_test_123", resp["url"])
}

func TestPayment_CreateCheckoutSessionHandlerProviderDown(t *testing.T) {
	f := newPaymentFixture()
	uID := primitive.NewObjectID()
	order := &models.Order{
		ID:        primitive.NewObjectID(),
		UserID:    uID,
		VehicleID: primitive.NewObjectID(),
		Status:    models.OrderStatusCreated,
	}
	awaiting := *order
	awaiting.Status = models.OrderStatusAwaitingPayment

	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(order, nil)
	f.orders.On("TransitionStatus", mock.Anything, order.ID,
		[]string{models.OrderStatusCreated}, models.OrderStatusAwaitingPayment).Return(&awaiting, nil)
	f.vehicles.On("FindOne", mock.Anything, mock.Anything).Return(&models.Vehicle{ID: order.VehicleID}, nil)
	f.provider.On("CreateSession", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	f.orders.On("TransitionStatus", mock.Anything, order.ID,
		[]string{models.OrderStatusAwaitingPayment}, models.OrderStatusCreated).Return(order, nil)

	req := authedRequest("POST", "/api/v1/orders/"+order.ID.Hex()+"/checkout", nil, userClaims(uID))
	req = mux.SetURLVars(req, map[string]string{"order_id": order.ID.Hex()})

	rr := httptest.NewRecorder()
	f.handler.CreateCheckoutSessionHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", resp.Code)
}

// Polling the status endpoint after the session settled must not touch the
// provider, and the guarded re-drive of the order and vehicle must no-op.
func TestPayment_PaymentStatusHandlerIdempotentAfterPaid(t *testing.T) {
	f := newPaymentFixture()
	order := &models.Order{
		ID:     primitive.NewObjectID(),
		Status: models.OrderStatusPaid,
	}
	settled := &models.CheckoutSession{
		ID:      "cs_test_123",
		OrderID: order.ID,
		Status:  models.SessionStatusPaid,
		Amount:  2499900,
	}
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(settled, nil)
	f.orders.On("TransitionStatus", mock.Anything, order.ID,
		[]string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}, models.OrderStatusPaid).Return(nil, mongo.ErrNoDocuments)
	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(order, nil)
	f.vehicles.On("TransitionStatus", mock.Anything, order.VehicleID,
		models.VehicleStatusReserved, models.VehicleStatusSold).Return(nil, mongo.ErrNoDocuments)

	for i := 0; i < 3; i++ {
		req := authedRequest("GET", "/api/v1/payments/status/cs_test_123", nil, userClaims(primitive.NewObjectID()))
		req = mux.SetURLVars(req, map[string]string{"session_id": "cs_test_123"})

		rr := httptest.NewRecorder()
		f.handler.PaymentStatusHandler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, models.SessionStatusPaid, resp["paymentStatus"])
		assert.Equal(t, models.OrderStatusPaid, resp["orderStatus"])
	}

	f.provider.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayment_PaymentStatusHandlerProviderDown(t *testing.T) {
	f := newPaymentFixture()
	pending := &models.CheckoutSession{
		ID:      "cs_test_123",
		OrderID: primitive.NewObjectID(),
		Status:  models.SessionStatusPending,
	}
	errored := *pending
	errored.Status = models.SessionStatusErrored
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(pending, nil)
	f.provider.On("GetSession", mock.Anything, "cs_test_123").Return(nil, assert.AnError)
	f.sessions.On("TransitionStatus", mock.Anything, "cs_test_123",
		[]string{models.SessionStatusPending}, models.SessionStatusErrored).Return(&errored, nil)

	req := authedRequest("GET", "/api/v1/payments/status/cs_test_123", nil, userClaims(primitive.NewObjectID()))
	req = mux.SetURLVars(req, map[string]string{"session_id": "cs_test_123"})

	rr := httptest.NewRecorder()
	f.handler.PaymentStatusHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestPayment_StripeWebhookHandlerIgnoresUnknownEvents(t *testing.T) {
	f := newPaymentFixture()
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	body, _ := json.Marshal(map[string]interface{}{
		"type": "invoice.created",
	})
	req := httptest.NewRequest("POST", "/api/v1/webhook/stripe", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	f.handler.StripeWebhookHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	f.sessions.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestPayment_StripeWebhookHandlerReconcilesCompletedSession(t *testing.T) {
	f := newPaymentFixture()
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	order := &models.Order{
		ID:     primitive.NewObjectID(),
		Status: models.OrderStatusPaid,
	}
	settled := &models.CheckoutSession{
		ID:      "cs_test_123",
		OrderID: order.ID,
		Status:  models.SessionStatusPaid,
	}
	f.sessions.On("FindOne", mock.Anything, mock.Anything).Return(settled, nil)
	f.orders.On("TransitionStatus", mock.Anything, order.ID,
		[]string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}, models.OrderStatusPaid).Return(nil, mongo.ErrNoDocuments)
	f.orders.On("FindOne", mock.Anything, mock.Anything).Return(order, nil)
	f.vehicles.On("TransitionStatus", mock.Anything, order.VehicleID,
		models.VehicleStatusReserved, models.VehicleStatusSold).Return(nil, mongo.ErrNoDocuments)

	body, _ := json.Marshal(map[string]interface{}{
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{"id": "cs_test_123"},
		},
	})
	req := httptest.NewRequest("POST", "/api/v1/webhook/stripe", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	f.handler.StripeWebhookHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	f.sessions.AssertCalled(t, "FindOne", mock.Anything, mock.Anything)
}

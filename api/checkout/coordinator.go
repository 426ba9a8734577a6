package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
	"github.com/openroadmotors/dealership-api/payments"
)

// Sentinel errors the handlers map onto the HTTP error envelope.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrSessionNotFound     = errors.New("checkout session not found")
	ErrInvalidState        = errors.New("order is not in a payable state")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

// Mailer sends the order receipt once a payment settles.
type Mailer interface {
	SendOrderReceipt(order models.Order, session models.CheckoutSession, vehicle *models.Vehicle) error
}

// Notifier pushes order status changes to connected admin clients.
type Notifier interface {
	BroadcastOrderStatus(order models.Order)
}

// Coordinator owns every order/session/vehicle status transition tied to
// payment. All transitions go through guarded conditional updates, so
// concurrent reconcilers settle each session exactly once.
type Coordinator struct {
	Orders   databases.OrderDatabase
	Sessions databases.CheckoutSessionDatabase
	Vehicles databases.VehicleDatabase
	Provider payments.Provider
	Mailer   Mailer
	Notifier Notifier
	BaseURL  string
}

// BeginCheckoutResult is what the payment handler returns to the client.
type BeginCheckoutResult struct {
	SessionID string
	URL       string
	Amount    int64
}

// BeginCheckout moves the order into awaiting_payment and opens a hosted
// checkout session for it. If the provider call fails the order is rolled
// back to created so the client can retry.
func (c *Coordinator) BeginCheckout(ctx context.Context, orderID primitive.ObjectID) (*BeginCheckoutResult, error) {
	existing, err := c.Orders.FindOne(ctx, bson.M{"_id": orderID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err := c.Orders.TransitionStatus(ctx, orderID,
		[]string{models.OrderStatusCreated}, models.OrderStatusAwaitingPayment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			zap.S().Warnw("checkout rejected, order not payable",
				"orderID", orderID.Hex(), "status", existing.Status)
			return nil, ErrInvalidState
		}
		return nil, err
	}

	vehicle, err := c.Vehicles.FindOne(ctx, bson.M{"_id": order.VehicleID})
	if err != nil {
		c.rollbackToCreated(ctx, orderID)
		return nil, err
	}

	reference := uuid.New().String()
	ps, err := c.Provider.CreateSession(ctx, payments.CreateSessionInput{
		Reference:   reference,
		Description: fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model),
		Amount:      order.TotalAmount,
		Currency:    "usd",
		SuccessURL:  c.BaseURL + "/order-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   c.BaseURL + "/order-cancelled",
	})
	if err != nil {
		c.rollbackToCreated(ctx, orderID)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	_, err = c.Sessions.InsertOne(ctx, models.CheckoutSession{
		ID:        ps.ID,
		OrderID:   order.ID,
		Reference: reference,
		Status:    models.SessionStatusPending,
		Amount:    order.TotalAmount,
		Currency:  "usd",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		c.rollbackToCreated(ctx, orderID)
		return nil, err
	}

	zap.S().Infow("checkout session opened",
		"orderID", order.ID.Hex(), "sessionID", ps.ID)
	return &BeginCheckoutResult{SessionID: ps.ID, URL: ps.URL, Amount: order.TotalAmount}, nil
}

// ReconcileSession asks the provider for the session's current state and
// settles it. Safe to call any number of times from the status poll, the
// webhook and the sweeper: every transition is guarded, so repeated calls
// converge the order and vehicle without double-applying anything, and the
// receipt goes out exactly once.
func (c *Coordinator) ReconcileSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	sess, err := c.Sessions.FindOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if sess.Status == models.SessionStatusPaid || sess.Status == models.SessionStatusExpired {
		// The session is settled, but a previous reconciler may have hit a
		// transient store error between the session transition and the order
		// and vehicle ones. Re-drive them; the guards make this a no-op when
		// everything already converged.
		if err := c.applySettlement(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}

	ps, err := c.Provider.GetSession(ctx, sessionID)
	if err != nil {
		// flag the failed observation; errored sessions stay reconcilable
		// so the next poll or sweep retries
		if _, terr := c.Sessions.TransitionStatus(ctx, sess.ID,
			[]string{models.SessionStatusPending}, models.SessionStatusErrored); terr != nil && !errors.Is(terr, mongo.ErrNoDocuments) {
			zap.S().Errorw("failed to flag checkout session as errored",
				"sessionID", sess.ID, "error", terr)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	switch {
	case ps.Paid:
		return c.settlePaid(ctx, sess)
	case ps.Status == payments.SessionExpired:
		return c.settleExpired(ctx, sess)
	default:
		return sess, nil
	}
}

// unsettledSessionStates are the source states a reconciler may settle from.
var unsettledSessionStates = []string{models.SessionStatusPending, models.SessionStatusErrored}

func (c *Coordinator) settlePaid(ctx context.Context, sess *models.CheckoutSession) (*models.CheckoutSession, error) {
	won, err := c.Sessions.TransitionStatus(ctx, sess.ID, unsettledSessionStates, models.SessionStatusPaid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// another reconciler settled it first; converge on its outcome
			settled, ferr := c.Sessions.FindOne(ctx, bson.M{"_id": sess.ID})
			if ferr != nil {
				return nil, ferr
			}
			if aerr := c.applySettlement(ctx, settled); aerr != nil {
				return nil, aerr
			}
			return settled, nil
		}
		return nil, err
	}
	if err := c.applyPaidOutcome(ctx, won); err != nil {
		return nil, err
	}
	return won, nil
}

func (c *Coordinator) settleExpired(ctx context.Context, sess *models.CheckoutSession) (*models.CheckoutSession, error) {
	won, err := c.Sessions.TransitionStatus(ctx, sess.ID, unsettledSessionStates, models.SessionStatusExpired)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			settled, ferr := c.Sessions.FindOne(ctx, bson.M{"_id": sess.ID})
			if ferr != nil {
				return nil, ferr
			}
			if aerr := c.applySettlement(ctx, settled); aerr != nil {
				return nil, aerr
			}
			return settled, nil
		}
		return nil, err
	}
	if err := c.applyExpiredOutcome(ctx, won); err != nil {
		return nil, err
	}
	return won, nil
}

// applySettlement re-drives the order and vehicle side effects for a session
// whose terminal state is already recorded.
func (c *Coordinator) applySettlement(ctx context.Context, sess *models.CheckoutSession) error {
	switch sess.Status {
	case models.SessionStatusPaid:
		return c.applyPaidOutcome(ctx, sess)
	case models.SessionStatusExpired:
		return c.applyExpiredOutcome(ctx, sess)
	}
	return nil
}

// applyPaidOutcome moves the order to paid and the vehicle to sold. The
// receipt and the broadcast fire only for the caller that wins the order
// transition, so repeated calls converge the documents without repeating
// the notifications.
func (c *Coordinator) applyPaidOutcome(ctx context.Context, sess *models.CheckoutSession) error {
	order, err := c.Orders.TransitionStatus(ctx, sess.OrderID,
		[]string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}, models.OrderStatusPaid)
	wonOrder := err == nil
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		order, err = c.Orders.FindOne(ctx, bson.M{"_id": sess.OrderID})
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusFulfilled {
			zap.S().Warnw("session paid but order already settled",
				"sessionID", sess.ID, "orderID", sess.OrderID.Hex(), "orderStatus", order.Status)
			return nil
		}
	}

	vehicle, err := c.Vehicles.TransitionStatus(ctx, order.VehicleID,
		models.VehicleStatusReserved, models.VehicleStatusSold)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if !wonOrder {
		return nil
	}

	zap.S().Infow("order paid",
		"orderID", order.ID.Hex(), "sessionID", sess.ID, "amount", sess.Amount)

	if c.Mailer != nil {
		if err := c.Mailer.SendOrderReceipt(*order, *sess, vehicle); err != nil {
			zap.S().Errorw("failed to send order receipt", "orderID", order.ID.Hex(), "error", err)
		}
	}
	if c.Notifier != nil {
		c.Notifier.BroadcastOrderStatus(*order)
	}
	return nil
}

// applyExpiredOutcome cancels the order and releases the vehicle. If the
// order settled some other way (paid through a newer session, say) its
// vehicle is left alone.
func (c *Coordinator) applyExpiredOutcome(ctx context.Context, sess *models.CheckoutSession) error {
	order, err := c.Orders.TransitionStatus(ctx, sess.OrderID,
		[]string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}, models.OrderStatusCancelled)
	wonOrder := err == nil
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		order, err = c.Orders.FindOne(ctx, bson.M{"_id": sess.OrderID})
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusCancelled {
			return nil
		}
	}

	if _, err := c.Vehicles.TransitionStatus(ctx, order.VehicleID,
		models.VehicleStatusReserved, models.VehicleStatusAvailable); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if !wonOrder {
		return nil
	}

	zap.S().Infow("checkout session expired, order cancelled",
		"orderID", order.ID.Hex(), "sessionID", sess.ID)

	if c.Notifier != nil {
		c.Notifier.BroadcastOrderStatus(*order)
	}
	return nil
}

// SweepPendingSessions reconciles unsettled (pending or errored) sessions
// that have been open longer than maxAge. Used by the scheduler to clean up
// abandoned checkouts.
func (c *Coordinator) SweepPendingSessions(ctx context.Context, maxAge time.Duration) error {
	cutoff := primitive.NewDateTimeFromTime(time.Now().Add(-maxAge))
	stale, err := c.Sessions.Find(ctx, bson.M{
		"status":    bson.M{"$in": unsettledSessionStates},
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return err
	}

	for i := range stale {
		if _, err := c.ReconcileSession(ctx, stale[i].ID); err != nil {
			zap.S().Errorw("failed to reconcile stale checkout session",
				"sessionID", stale[i].ID, "error", err)
		}
	}
	return nil
}

func (c *Coordinator) rollbackToCreated(ctx context.Context, orderID primitive.ObjectID) {
	if _, err := c.Orders.TransitionStatus(ctx, orderID,
		[]string{models.OrderStatusAwaitingPayment}, models.OrderStatusCreated); err != nil {
		zap.S().Errorw("failed to roll back order after checkout failure",
			"orderID", orderID.Hex(), "error", err)
	}
}

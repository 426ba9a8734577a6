package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checkout session status. The session is the ephemeral bridge between an
// order and the external payment processor; it is superseded once resolved.
const (
	SessionStatusPending = "pending"
	SessionStatusPaid    = "paid"
	SessionStatusExpired = "expired"
	SessionStatusErrored = "errored"
)

// CheckoutSession holds the structure for the checkoutSessions collection
// in mongo. The _id is the opaque session id issued by the processor.
type CheckoutSession struct {
	ID        string             `json:"sessionId" bson:"_id"`
	OrderID   primitive.ObjectID `json:"orderID" bson:"orderID"`
	Reference string             `json:"reference" bson:"reference"`
	Status    string             `json:"status" bson:"status"`
	Amount    int64              `json:"amount" bson:"amount"`
	Currency  string             `json:"currency" bson:"currency"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

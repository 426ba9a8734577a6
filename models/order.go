package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status lifecycle:
// created -> awaiting_payment -> paid -> fulfilled, with the side exit
// created|awaiting_payment -> cancelled. While an order is open it holds
// the exclusive reservation on its vehicle.
const (
	OrderStatusCreated         = "created"
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusPaid            = "paid"
	OrderStatusFulfilled       = "fulfilled"
	OrderStatusCancelled       = "cancelled"
)

// Order holds the structure for the orders collection in mongo
type Order struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userID" bson:"userID"`
	VehicleID       primitive.ObjectID `json:"vehicleID" bson:"vehicleID"`
	CustomerName    string             `json:"customerName" bson:"customerName"`
	CustomerEmail   string             `json:"customerEmail" bson:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone" bson:"customerPhone"`
	CustomerAddress string             `json:"customerAddress" bson:"customerAddress"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	FinancingNeeded bool               `json:"financingNeeded" bson:"financingNeeded"`
	Status          string             `json:"status" bson:"status"`
	TotalAmount     int64              `json:"totalAmount" bson:"totalAmount"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

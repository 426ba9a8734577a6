package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle status lifecycle. Transitions only move forward
// (available -> reserved -> sold), except reserved -> available when an
// order is cancelled or its checkout session expires.
const (
	VehicleStatusAvailable = "available"
	VehicleStatusReserved  = "reserved"
	VehicleStatusSold      = "sold"
)

// Vehicle holds the structure for the vehicles collection in mongo
type Vehicle struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Make                string             `json:"make" bson:"make"`
	Model               string             `json:"model" bson:"model"`
	Year                int                `json:"year" bson:"year"`
	Price               int64              `json:"price" bson:"price"` // smallest currency unit
	Mileage             int                `json:"mileage" bson:"mileage"`
	FuelType            string             `json:"fuelType" bson:"fuelType"`
	Transmission        string             `json:"transmission" bson:"transmission"`
	EngineSize          string             `json:"engineSize" bson:"engineSize"`
	Color               string             `json:"color" bson:"color"`
	InteriorType        string             `json:"interiorType" bson:"interiorType"`
	VIN                 string             `json:"vin" bson:"vin"`
	Description         string             `json:"description" bson:"description"`
	Images              []string           `json:"images" bson:"images"`
	SafetyFeatures      []string           `json:"safetyFeatures" bson:"safetyFeatures"`
	EntertainmentSystem string             `json:"entertainmentSystem" bson:"entertainmentSystem"`
	Status              string             `json:"status" bson:"status"`
	CreatedAt           primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt           primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Role elevation happens only through direct administrative
// action, never via self-service registration.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	FirstName string             `json:"firstName" bson:"firstName"`
	LastName  string             `json:"lastName" bson:"lastName"`
	Phone     string             `json:"phone" bson:"phone"`
	Role      string             `json:"role" bson:"role"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

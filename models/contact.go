package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactMessage holds the structure for the contactMessages collection in
// mongo. Submitted through the public contact form, read by staff.
type ContactMessage struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string             `json:"subject" bson:"subject"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

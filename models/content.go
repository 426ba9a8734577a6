package models

// SiteContent is the singleton document holding admin-editable site copy
type SiteContent struct {
	About   string         `json:"about" bson:"about"`
	Contact ContactDetails `json:"contact" bson:"contact"`
}

// ContactDetails holds the dealership contact block shown on the site
type ContactDetails struct {
	Address string `json:"address" bson:"address"`
	Phone   string `json:"phone" bson:"phone"`
	Email   string `json:"email" bson:"email"`
	Hours   string `json:"hours" bson:"hours"`
}

package databases

// go generate: mockery --name ContactMessageDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openroadmotors/dealership-api/models"
)

const contactMessageName = "contactMessages"

// ContactMessageDatabase contains the methods to use with the contact message database
type ContactMessageDatabase interface {
	InsertOne(ctx context.Context, msg models.ContactMessage) (InsertOneResultHelper, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ContactMessage, error)
}

type contactMessageDatabase struct {
	db DatabaseHelper
}

// NewContactMessageDatabase initializes a new instance of contact message database with the provided db connection
func NewContactMessageDatabase(db DatabaseHelper) ContactMessageDatabase {
	return &contactMessageDatabase{
		db: db,
	}
}

func (c *contactMessageDatabase) InsertOne(ctx context.Context, msg models.ContactMessage) (InsertOneResultHelper, error) {
	return c.db.Collection(contactMessageName).InsertOne(ctx, msg)
}

func (c *contactMessageDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	cursor, err := c.db.Collection(contactMessageName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.Decode(&msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

package databases

// go generate: mockery --name ContentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openroadmotors/dealership-api/models"
)

const contentName = "siteContent"

// contentDocID keys the singleton site content document.
const contentDocID = "site"

// ContentDatabase contains the methods to use with the site content singleton
type ContentDatabase interface {
	Get(ctx context.Context) (*models.SiteContent, error)
	Upsert(ctx context.Context, content models.SiteContent) error
}

type contentDatabase struct {
	db DatabaseHelper
}

// NewContentDatabase initializes a new instance of content database with the provided db connection
func NewContentDatabase(db DatabaseHelper) ContentDatabase {
	return &contentDatabase{
		db: db,
	}
}

func (c *contentDatabase) Get(ctx context.Context) (*models.SiteContent, error) {
	content := &models.SiteContent{}
	err := c.db.Collection(contentName).FindOne(ctx, bson.M{"_id": contentDocID}).Decode(content)
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (c *contentDatabase) Upsert(ctx context.Context, content models.SiteContent) error {
	_, err := c.db.Collection(contentName).UpdateOne(ctx,
		bson.M{"_id": contentDocID},
		bson.M{"$set": bson.M{"about": content.About, "contact": content.Contact}},
		options.Update().SetUpsert(true),
	)
	return err
}

package databases

// go generate: mockery --name CheckoutSessionDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openroadmotors/dealership-api/models"
)

const checkoutSessionName = "checkoutSessions"

// CheckoutSessionDatabase contains the methods to use with the checkout
// session database
type CheckoutSessionDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.CheckoutSession, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CheckoutSession, error)
	InsertOne(ctx context.Context, session models.CheckoutSession) (InsertOneResultHelper, error)
	TransitionStatus(ctx context.Context, id string, from []string, to string) (*models.CheckoutSession, error)
}

type checkoutSessionDatabase struct {
	db DatabaseHelper
}

// NewCheckoutSessionDatabase initializes a new instance of checkout session database with the provided db connection
func NewCheckoutSessionDatabase(db DatabaseHelper) CheckoutSessionDatabase {
	return &checkoutSessionDatabase{
		db: db,
	}
}

func (s *checkoutSessionDatabase) FindOne(ctx context.Context, filter interface{}) (*models.CheckoutSession, error) {
	session := &models.CheckoutSession{}
	err := s.db.Collection(checkoutSessionName).FindOne(ctx, filter).Decode(session)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *checkoutSessionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CheckoutSession, error) {
	var sessions []models.CheckoutSession
	cursor, err := s.db.Collection(checkoutSessionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.Decode(&sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *checkoutSessionDatabase) InsertOne(ctx context.Context, session models.CheckoutSession) (InsertOneResultHelper, error) {
	return s.db.Collection(checkoutSessionName).InsertOne(ctx, session)
}

func (s *checkoutSessionDatabase) TransitionStatus(ctx context.Context, id string, from []string, to string) (*models.CheckoutSession, error) {
	session := &models.CheckoutSession{}
	err := s.db.Collection(checkoutSessionName).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": primitive.NewDateTimeFromTime(time.Now())}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(session)
	if err != nil {
		return nil, err
	}
	return session, nil
}

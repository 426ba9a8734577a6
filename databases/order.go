package databases

// go generate: mockery --name OrderDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openroadmotors/dealership-api/models"
)

const orderName = "orders"

// OrderDatabase contains the methods to use with the order database.
// TransitionStatus guards on the set of valid source states, so replaying
// the same transition (duplicate processor reports, poller/admin races) is
// a no-op for everyone but the first caller.
type OrderDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Order, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Order, error)
	InsertOne(ctx context.Context, order models.Order) (InsertOneResultHelper, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, to string) (*models.Order, error)
}

type orderDatabase struct {
	db DatabaseHelper
}

// NewOrderDatabase initializes a new instance of order database with the provided db connection
func NewOrderDatabase(db DatabaseHelper) OrderDatabase {
	return &orderDatabase{
		db: db,
	}
}

func (o *orderDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Order, error) {
	order := &models.Order{}
	err := o.db.Collection(orderName).FindOne(ctx, filter).Decode(order)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (o *orderDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Order, error) {
	var orders []models.Order
	cursor, err := o.db.Collection(orderName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.Decode(&orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *orderDatabase) InsertOne(ctx context.Context, order models.Order) (InsertOneResultHelper, error) {
	return o.db.Collection(orderName).InsertOne(ctx, order)
}

func (o *orderDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return o.db.Collection(orderName).CountDocuments(ctx, filter)
}

func (o *orderDatabase) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []string, to string) (*models.Order, error) {
	order := &models.Order{}
	err := o.db.Collection(orderName).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": primitive.NewDateTimeFromTime(time.Now())}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(order)
	if err != nil {
		return nil, err
	}
	return order, nil
}

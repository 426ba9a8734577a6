package databases

//go generate: mockery --name VehicleDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openroadmotors/dealership-api/models"
)

const vehicleName = "vehicles"

// VehicleDatabase contains the methods to use with the vehicle database.
// TransitionStatus is the only way vehicle status changes: a single
// conditional update that matches the current status, so concurrent
// claims on the same vehicle have exactly one winner.
type VehicleDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Vehicle, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Vehicle, error)
	InsertOne(ctx context.Context, vehicle models.Vehicle) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to string) (*models.Vehicle, error)
}

type vehicleDatabase struct {
	db DatabaseHelper
}

// NewVehicleDatabase initializes a new instance of vehicle database with the provided db connection
func NewVehicleDatabase(db DatabaseHelper) VehicleDatabase {
	return &vehicleDatabase{
		db: db,
	}
}

func (c *vehicleDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	err := c.db.Collection(vehicleName).FindOne(ctx, filter).Decode(vehicle)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (c *vehicleDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	cursor, err := c.db.Collection(vehicleName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.Decode(&vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *vehicleDatabase) InsertOne(ctx context.Context, vehicle models.Vehicle) (InsertOneResultHelper, error) {
	return c.db.Collection(vehicleName).InsertOne(ctx, vehicle)
}

func (c *vehicleDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	_, err := c.db.Collection(vehicleName).UpdateOne(ctx, filter, update)
	return err
}

func (c *vehicleDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return c.db.Collection(vehicleName).DeleteOne(ctx, filter)
}

func (c *vehicleDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(vehicleName).CountDocuments(ctx, filter)
}

func (c *vehicleDatabase) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to string) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	err := c.db.Collection(vehicleName).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": primitive.NewDateTimeFromTime(time.Now())}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(vehicle)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

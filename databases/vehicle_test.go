package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/databases/mocks"
	"github.com/openroadmotors/dealership-api/models"
)

func TestNewVehicleDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	vehicleDB := databases.NewVehicleDatabase(db)

	assert.NotEmpty(t, vehicleDB)
}

func TestVehicleDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Vehicle)
		arg.Make = "Toyota"
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "vehicles").Return(collectionHelper)

	// Create new database with mocked Database interface
	vehicleDba := databases.NewVehicleDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	vehicle, err := vehicleDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, vehicle)
	assert.EqualError(t, err, "mocked-error")

	// Now call the same function with different different filter for correct
	// result
	vehicle, err = vehicleDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.Vehicle{Make: "Toyota"}, vehicle)
	assert.NoError(t, err)
}

// The transition must be a single conditional update that matches both the
// id and the expected current status, with the post-update document
// returned. That filter is what makes concurrent reservations safe.
func TestVehicleDatabase_TransitionStatusGuardsOnCurrentStatus(t *testing.T) {
	vID := primitive.NewObjectID()

	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Vehicle)
		arg.ID = vID
		arg.Status = models.VehicleStatusReserved
	})

	collectionHelper := &mocks.CollectionHelper{}
	collectionHelper.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper := &mocks.DatabaseHelper{}
	dbHelper.On("Collection", "vehicles").Return(collectionHelper)

	vehicleDba := databases.NewVehicleDatabase(dbHelper)

	vehicle, err := vehicleDba.TransitionStatus(context.Background(), vID,
		models.VehicleStatusAvailable, models.VehicleStatusReserved)

	assert.NoError(t, err)
	assert.Equal(t, models.VehicleStatusReserved, vehicle.Status)

	filter := collectionHelper.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, bson.M{"_id": vID, "status": models.VehicleStatusAvailable}, filter)

	update := collectionHelper.Calls[0].Arguments.Get(2).(bson.M)
	set := update["$set"].(bson.M)
	assert.Equal(t, models.VehicleStatusReserved, set["status"])
	assert.Contains(t, set, "updatedAt")

	opts := collectionHelper.Calls[0].Arguments.Get(3).(*options.FindOneAndUpdateOptions)
	assert.Equal(t, options.After, *opts.ReturnDocument)
}

func TestVehicleDatabase_TransitionStatusLosesRace(t *testing.T) {
	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	collectionHelper := &mocks.CollectionHelper{}
	collectionHelper.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper := &mocks.DatabaseHelper{}
	dbHelper.On("Collection", "vehicles").Return(collectionHelper)

	vehicleDba := databases.NewVehicleDatabase(dbHelper)

	vehicle, err := vehicleDba.TransitionStatus(context.Background(), primitive.NewObjectID(),
		models.VehicleStatusAvailable, models.VehicleStatusReserved)

	assert.Nil(t, vehicle)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

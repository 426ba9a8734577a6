package databases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/databases/mocks"
	"github.com/openroadmotors/dealership-api/models"
)

// Order transitions accept a set of source states, so both "created" and
// "awaiting_payment" orders can be settled by whoever reports payment first.
func TestOrderDatabase_TransitionStatusGuardsOnSourceStates(t *testing.T) {
	oID := primitive.NewObjectID()

	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Order)
		arg.ID = oID
		arg.Status = models.OrderStatusPaid
	})

	collectionHelper := &mocks.CollectionHelper{}
	collectionHelper.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper := &mocks.DatabaseHelper{}
	dbHelper.On("Collection", "orders").Return(collectionHelper)

	orderDba := databases.NewOrderDatabase(dbHelper)

	order, err := orderDba.TransitionStatus(context.Background(), oID,
		[]string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}, models.OrderStatusPaid)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	filter := collectionHelper.Calls[0].Arguments.Get(1).(bson.M)
	assert.Equal(t, bson.M{
		"_id":    oID,
		"status": bson.M{"$in": []string{models.OrderStatusCreated, models.OrderStatusAwaitingPayment}},
	}, filter)
}

func TestOrderDatabase_TransitionStatusRejectsSettledOrder(t *testing.T) {
	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)

	collectionHelper := &mocks.CollectionHelper{}
	collectionHelper.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(srHelper)

	dbHelper := &mocks.DatabaseHelper{}
	dbHelper.On("Collection", "orders").Return(collectionHelper)

	orderDba := databases.NewOrderDatabase(dbHelper)

	order, err := orderDba.TransitionStatus(context.Background(), primitive.NewObjectID(),
		[]string{models.OrderStatusCreated}, models.OrderStatusCancelled)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

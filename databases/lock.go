package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lockName = "schedulerLocks"

// SchedulerLockDatabase provides a mongo-backed distributed lock so periodic
// jobs run on a single instance at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, instanceID string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

func (l *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) (bool, error) {
	now := time.Now()
	// Claim the lock if it is free, expired, or already ours. A concurrent
	// upsert on the same _id surfaces as a duplicate key error, which means
	// another instance won.
	_, err := l.db.Collection(lockName).UpdateOne(ctx,
		bson.M{
			"_id": name,
			"$or": []bson.M{
				{"expiresAt": bson.M{"$lt": primitive.NewDateTimeFromTime(now)}},
				{"owner": instanceID},
			},
		},
		bson.M{"$set": bson.M{
			"owner":     instanceID,
			"expiresAt": primitive.NewDateTimeFromTime(now.Add(ttl)),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, instanceID string) error {
	return l.db.Collection(lockName).DeleteOne(ctx, bson.M{"_id": name, "owner": instanceID})
}

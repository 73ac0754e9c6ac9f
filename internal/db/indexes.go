package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application depends on. The unique
// ones are load-bearing: favourite idempotency, thread deduplication and
// email uniqueness are all enforced here rather than by read-then-write
// checks in the services.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"listings": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "seller_id", Value: 1}}},
			{Keys: bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		"favourites": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"threads": {
			{
				Keys:    bson.D{{Key: "buyer_id", Value: 1}, {Key: "listing_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		},
		"messages": {
			{Keys: bson.D{{Key: "thread_id", Value: 1}, {Key: "sent_at", Value: 1}}},
		},
		"reports": {
			{Keys: bson.D{{Key: "listing_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

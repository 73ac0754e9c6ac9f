package db

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

const DefaultMaxRetries = 3

// Try executes an operation with default retry settings for transient
// Mongo errors (network trouble, timeouts).
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsTransientMongoError)
}

// WithRetries executes op up to maxRetries+1 times, retrying only when the
// predicate says the error is worth retrying. A simple incremental backoff
// spaces the attempts.
func WithRetries(op Operation, maxRetries int, retryable func(error) bool) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		if !retryable(err) {
			return err
		}
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
	}
	return err
}

// IsTransientMongoError reports whether the error looks like a temporary
// infrastructure failure rather than a logical one. Duplicate key errors are
// deliberately not transient: callers handle those as domain outcomes.
func IsTransientMongoError(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// Not-primary and shutdown errors during a failover.
		return cmdErr.HasErrorLabel("RetryableWriteError")
	}
	return false
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsMongoDuplicateKeyError(err error) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}

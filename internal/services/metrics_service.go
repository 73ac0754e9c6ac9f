package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/models"
)

// IMetricsService aggregates marketplace-wide counts for the admin dashboard.
type IMetricsService interface {
	Snapshot(ctx context.Context, actor Actor) (*models.Metrics, error)
}

type metricsService struct {
	db *mongo.Database
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(db *mongo.Database) IMetricsService {
	return &metricsService{db: db}
}

// Snapshot counts users, listings by status, messages and reports. The
// counts are independent queries, not a transaction; the dashboard tolerates
// a snapshot that is a few writes out of sync with itself.
func (s *metricsService) Snapshot(ctx context.Context, actor Actor) (*models.Metrics, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}

	m := &models.Metrics{}
	counts := []struct {
		coll   string
		filter bson.M
		dest   *int64
	}{
		{usersCollection, bson.M{}, &m.TotalUsers},
		{listingsCollection, bson.M{}, &m.TotalListings},
		{listingsCollection, bson.M{"status": models.StatusPublished}, &m.PublishedListings},
		{listingsCollection, bson.M{"status": models.StatusPendingApproval}, &m.PendingListings},
		{listingsCollection, bson.M{"status": models.StatusRejected}, &m.RejectedListings},
		{messagesCollection, bson.M{}, &m.TotalMessages},
		{reportsCollection, bson.M{}, &m.TotalReports},
	}
	for _, c := range counts {
		n, err := s.db.Collection(c.coll).CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.coll, err)
		}
		*c.dest = n
	}
	return m, nil
}

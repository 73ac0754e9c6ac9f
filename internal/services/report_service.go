package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motorbay/m1/internal/models"
)

// IReportService records complaints about listings. Reports are append-only.
type IReportService interface {
	Create(ctx context.Context, actor Actor, listingID primitive.ObjectID, reason models.ReportReason, details string) (*models.Report, error)
	List(ctx context.Context, actor Actor, page, pageSize int) (*PagedReports, error)
	ListForListing(ctx context.Context, actor Actor, listingID primitive.ObjectID) ([]models.Report, error)
}

// PagedReports is an offset-paginated moderation queue page.
type PagedReports struct {
	Items      []models.Report `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

const reportsCollection = "reports"

const maxReportDetailsLength = 2000

type reportService struct {
	db *mongo.Database
}

// NewReportService creates a new ReportService.
func NewReportService(db *mongo.Database) IReportService {
	return &reportService{db: db}
}

// Create files a report against a listing the actor can see. Multiple
// reports by the same user against the same listing are allowed; moderators
// read volume as signal.
func (s *reportService) Create(ctx context.Context, actor Actor, listingID primitive.ObjectID, reason models.ReportReason, details string) (*models.Report, error) {
	if !actor.Known() {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	if !reason.Valid() {
		return nil, fmt.Errorf("%w: unknown report reason %q", ErrInvalidInput, reason)
	}
	details = strings.TrimSpace(details)
	if len(details) > maxReportDetailsLength {
		return nil, fmt.Errorf("%w: details exceed %d characters", ErrInvalidInput, maxReportDetailsLength)
	}

	var listing models.Listing
	err := s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
		}
		return nil, fmt.Errorf("error finding listing %s: %w", listingID.Hex(), err)
	}
	if !actor.CanSee(&listing) {
		return nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
	}

	var reporter models.User
	err = s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": *actor.UserID}).Decode(&reporter)
	if err != nil {
		return nil, fmt.Errorf("failed to load reporter %s: %w", actor.UserID.Hex(), err)
	}

	report := &models.Report{
		ID:           primitive.NewObjectID(),
		ListingID:    listingID,
		ListingTitle: listing.Title,
		ReporterID:   *actor.UserID,
		ReporterName: reporter.DisplayName,
		Reason:       reason,
		Details:      details,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.db.Collection(reportsCollection).InsertOne(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to insert report for listing %s: %w", listingID.Hex(), err)
	}
	return report, nil
}

// List returns the moderation queue, newest first. Admin only.
func (s *reportService) List(ctx context.Context, actor Actor, page, pageSize int) (*PagedReports, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	coll := s.db.Collection(reportsCollection)
	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.Report{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return &PagedReports{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// ListForListing returns every report filed against one listing, oldest
// first, so a moderator can read the history in order. Admin only.
func (s *reportService) ListForListing(ctx context.Context, actor Actor, listingID primitive.ObjectID) ([]models.Report, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(reportsCollection).Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for listing %s: %w", listingID.Hex(), err)
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

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

	"motorbay/m1/internal/config"
	"motorbay/m1/internal/models"
)

// IListingService owns the listing lifecycle and the visibility policy.
type IListingService interface {
	Create(ctx context.Context, actor Actor, input ListingInput) (*models.Listing, error)
	GetByID(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error)
	Update(ctx context.Context, actor Actor, listingID primitive.ObjectID, input ListingInput) (*models.Listing, error)
	Submit(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error)
	Approve(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error)
	Reject(ctx context.Context, actor Actor, listingID primitive.ObjectID, reason string) (*models.Listing, error)
	Unpublish(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error)
	Remove(ctx context.Context, actor Actor, listingID primitive.ObjectID, reason string) (*models.Listing, error)
	Search(ctx context.Context, actor Actor, query ListingQuery) (*PagedListings, error)
	AddPhoto(ctx context.Context, listingID primitive.ObjectID, photoKey string) error
}

// ListingInput carries the seller-editable fields of a listing. Status,
// seller and reason fields are never taken from input.
type ListingInput struct {
	Title        string
	Description  string
	Price        float64
	Make         string
	Model        string
	Year         int
	Mileage      int
	FuelType     string
	Transmission string
	BodyType     string
	Condition    string
	Location     string
	Photos       []string
}

// ListingQuery is the browse/search request. SellerID combined with the
// requesting actor decides whether non-published listings are included.
type ListingQuery struct {
	Search       string
	Make         string
	Model        string
	PriceMin     *float64
	PriceMax     *float64
	YearMin      *int
	YearMax      *int
	MileageMax   *int
	FuelType     string
	Transmission string
	BodyType     string
	Location     string
	SellerID     *primitive.ObjectID
	// Status narrows admin queries to one lifecycle state. Ignored for
	// non-admin queries, which are pinned to published anyway.
	Status   string
	SortBy   string
	Page     int
	PageSize int
	// Unrestricted skips the visibility filter; only the admin listing
	// endpoint sets it.
	Unrestricted bool
}

// PagedListings is an offset-paginated search result.
type PagedListings struct {
	Items      []models.Listing `json:"items"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

const listingsCollection = "listings"

type listingService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewListingService creates a new ListingService.
func NewListingService(db *mongo.Database, cfg *config.Config) IListingService {
	return &listingService{db: db, cfg: cfg}
}

func (s *listingService) validateInput(input ListingInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return fmt.Errorf("%w: make and model are required", ErrInvalidInput)
	}
	return nil
}

// Create inserts a new listing for the acting seller. New listings always
// start in draft, whatever the client asked for.
func (s *listingService) Create(ctx context.Context, actor Actor, input ListingInput) (*models.Listing, error) {
	if !actor.Known() {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	if actor.IsSuspended {
		return nil, fmt.Errorf("%w: account is suspended", ErrForbidden)
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var seller models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": *actor.UserID}).Decode(&seller)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller %s: %w", actor.UserID.Hex(), err)
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:           primitive.NewObjectID(),
		SellerID:     *actor.UserID,
		SellerName:   seller.DisplayName,
		Title:        input.Title,
		Description:  input.Description,
		Price:        input.Price,
		Make:         input.Make,
		Model:        input.Model,
		Year:         input.Year,
		Mileage:      input.Mileage,
		FuelType:     input.FuelType,
		Transmission: input.Transmission,
		BodyType:     input.BodyType,
		Condition:    input.Condition,
		Location:     input.Location,
		Photos:       models.EncodePhotos(input.Photos),
		Status:       models.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.db.Collection(listingsCollection).InsertOne(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to insert listing for seller %s: %w", actor.UserID.Hex(), err)
	}
	return listing, nil
}

// GetByID returns a listing the actor is allowed to see. Listings invisible
// to the actor report not-found, never forbidden, so their existence leaks
// nothing.
func (s *listingService) GetByID(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	listing, err := s.fetch(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(listing) {
		return nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
	}
	return listing, nil
}

func (s *listingService) fetch(ctx context.Context, listingID primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
		}
		return nil, fmt.Errorf("error finding listing %s: %w", listingID.Hex(), err)
	}
	return &listing, nil
}

// Update replaces the seller-editable fields. Owners may edit only drafts and
// rejected listings; admins may edit regardless of status.
func (s *listingService) Update(ctx context.Context, actor Actor, listingID primitive.ObjectID, input ListingInput) (*models.Listing, error) {
	listing, err := s.fetch(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(listing) {
		return nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
	}
	if err := AuthorizeListingAction(actor, listing, ActionEdit, ""); err != nil {
		return nil, err
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":        input.Title,
		"description":  input.Description,
		"price":        input.Price,
		"make":         input.Make,
		"model":        input.Model,
		"year":         input.Year,
		"mileage":      input.Mileage,
		"fuel_type":    input.FuelType,
		"transmission": input.Transmission,
		"body_type":    input.BodyType,
		"condition":    input.Condition,
		"location":     input.Location,
		"photos":       models.EncodePhotos(input.Photos),
		"updated_at":   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Listing
	err = s.db.Collection(listingsCollection).FindOneAndUpdate(ctx, bson.M{"_id": listingID}, update, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", listingID.Hex(), err)
	}
	return &updated, nil
}

func (s *listingService) Submit(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	// A prior rejection reason survives Submit untouched; it is only cleared
	// by a later Approve.
	return s.transition(ctx, actor, listingID, ActionSubmit, "", nil, nil)
}

func (s *listingService) Approve(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, ActionApprove, "", nil, []string{"rejection_reason"})
}

func (s *listingService) Reject(ctx context.Context, actor Actor, listingID primitive.ObjectID, reason string) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, ActionReject, reason, bson.M{"rejection_reason": reason}, nil)
}

func (s *listingService) Unpublish(ctx context.Context, actor Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, ActionUnpublish, "", nil, nil)
}

func (s *listingService) Remove(ctx context.Context, actor Actor, listingID primitive.ObjectID, reason string) (*models.Listing, error) {
	return s.transition(ctx, actor, listingID, ActionRemove, reason, bson.M{"removal_reason": reason}, nil)
}

// transition runs one lifecycle edge: authorize against the table, then flip
// the status with the current status as part of the update filter so a
// concurrent transition cannot be overwritten.
func (s *listingService) transition(ctx context.Context, actor Actor, listingID primitive.ObjectID, action ListingAction, reason string, extraSet bson.M, unset []string) (*models.Listing, error) {
	listing, err := s.fetch(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(listing) {
		return nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
	}
	if err := AuthorizeListingAction(actor, listing, action, reason); err != nil {
		return nil, err
	}

	set := bson.M{
		"status":     TransitionTarget(action),
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extraSet {
		set[k] = v
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		unsetDoc := bson.M{}
		for _, field := range unset {
			unsetDoc[field] = ""
		}
		update["$unset"] = unsetDoc
	}

	filter := bson.M{"_id": listingID, "status": listing.Status}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Listing
	err = s.db.Collection(listingsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost a race with another transition.
			return nil, fmt.Errorf("%w: listing %s changed status concurrently", ErrConflict, listingID.Hex())
		}
		return nil, fmt.Errorf("failed to %s listing %s: %w", action, listingID.Hex(), err)
	}
	return &updated, nil
}

// Search applies the visibility policy as a filter: non-admin queries see
// published listings only, unless the query filters by the requester's own
// seller id, which unlocks all of their own statuses. Filtering by someone
// else's seller id stays published-only.
func (s *listingService) Search(ctx context.Context, actor Actor, query ListingQuery) (*PagedListings, error) {
	filter := bson.M{}

	viewingOwn := actor.Known() && query.SellerID != nil && *query.SellerID == *actor.UserID
	if query.Unrestricted && !actor.IsAdmin {
		return nil, fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}
	switch {
	case !actor.IsAdmin && !viewingOwn && !query.Unrestricted:
		filter["status"] = models.StatusPublished
	case query.Status != "":
		status, valid := models.ParseListingStatus(query.Status)
		if !valid {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, query.Status)
		}
		filter["status"] = status
	}

	if query.SellerID != nil {
		filter["seller_id"] = *query.SellerID
	}
	if q := strings.TrimSpace(query.Search); q != "" {
		re := primitive.Regex{Pattern: regexQuoteMeta(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"make": re},
			bson.M{"model": re},
		}
	}
	if query.Make != "" {
		filter["make"] = primitive.Regex{Pattern: "^" + regexQuoteMeta(query.Make) + "$", Options: "i"}
	}
	if query.Model != "" {
		filter["model"] = primitive.Regex{Pattern: "^" + regexQuoteMeta(query.Model) + "$", Options: "i"}
	}
	price := bson.M{}
	if query.PriceMin != nil {
		price["$gte"] = *query.PriceMin
	}
	if query.PriceMax != nil {
		price["$lte"] = *query.PriceMax
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	year := bson.M{}
	if query.YearMin != nil {
		year["$gte"] = *query.YearMin
	}
	if query.YearMax != nil {
		year["$lte"] = *query.YearMax
	}
	if len(year) > 0 {
		filter["year"] = year
	}
	if query.MileageMax != nil {
		filter["mileage"] = bson.M{"$lte": *query.MileageMax}
	}
	if query.FuelType != "" {
		filter["fuel_type"] = query.FuelType
	}
	if query.Transmission != "" {
		filter["transmission"] = query.Transmission
	}
	if query.BodyType != "" {
		filter["body_type"] = query.BodyType
	}
	if query.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexQuoteMeta(query.Location), Options: "i"}
	}

	sort := listingSortOrder(query.SortBy)

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	coll := s.db.Collection(listingsCollection)
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.Listing{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode listing search results: %w", err)
	}

	return &PagedListings{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// AddPhoto appends a processed photo key to the listing's stored list. Called
// by the photo worker, not by request handlers, so it takes no actor.
func (s *listingService) AddPhoto(ctx context.Context, listingID primitive.ObjectID, photoKey string) error {
	listing, err := s.fetch(ctx, listingID)
	if err != nil {
		return err
	}
	photos := listing.PhotoList()
	for _, p := range photos {
		if p == photoKey {
			return nil
		}
	}
	photos = append(photos, photoKey)

	update := bson.M{"$set": bson.M{
		"photos":     models.EncodePhotos(photos),
		"updated_at": time.Now().UTC(),
	}}
	result, err := s.db.Collection(listingsCollection).UpdateByID(ctx, listingID, update)
	if err != nil {
		return fmt.Errorf("failed to add photo %s to listing %s: %w", photoKey, listingID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
	}
	return nil
}

func listingSortOrder(sortBy string) bson.D {
	switch strings.ToLower(sortBy) {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "year_desc":
		return bson.D{{Key: "year", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// regexQuoteMeta escapes user input before it is embedded in a Mongo regex.
func regexQuoteMeta(s string) string {
	special := `\.+*?()|[]{}^$`
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motorbay/m1/internal/models"
)

// IFavouriteService maintains each user's set of saved listings.
type IFavouriteService interface {
	Add(ctx context.Context, actor Actor, listingID primitive.ObjectID) error
	Remove(ctx context.Context, actor Actor, listingID primitive.ObjectID) error
	List(ctx context.Context, actor Actor) ([]models.FavouriteWithListing, error)
	Contains(ctx context.Context, actor Actor, listingID primitive.ObjectID) (bool, error)
}

const favouritesCollection = "favourites"

type favouriteService struct {
	db *mongo.Database
}

// NewFavouriteService creates a new FavouriteService.
func NewFavouriteService(db *mongo.Database) IFavouriteService {
	return &favouriteService{db: db}
}

// Add saves a listing to the actor's favourites. Adding an already-saved
// listing is a no-op: the unique (user_id, listing_id) index absorbs the
// duplicate insert, so concurrent adds can never produce two entries.
func (s *favouriteService) Add(ctx context.Context, actor Actor, listingID primitive.ObjectID) error {
	if !actor.Known() {
		return fmt.Errorf("%w: authentication required", ErrForbidden)
	}

	var listing models.Listing
	err := s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
		}
		return fmt.Errorf("error finding listing %s: %w", listingID.Hex(), err)
	}
	if !actor.CanSee(&listing) {
		return fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
	}

	fav := models.Favourite{
		ID:        primitive.NewObjectID(),
		UserID:    *actor.UserID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Collection(favouritesCollection).InsertOne(ctx, fav)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to save favourite for user %s: %w", actor.UserID.Hex(), err)
	}
	return nil
}

// Remove deletes a favourite. Removing a listing the actor never saved is
// not-found; suspension does not prevent removal, suspended users may still
// shrink their own data.
func (s *favouriteService) Remove(ctx context.Context, actor Actor, listingID primitive.ObjectID) error {
	if !actor.Known() {
		return fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	filter := bson.M{"user_id": *actor.UserID, "listing_id": listingID}
	res, err := s.db.Collection(favouritesCollection).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove favourite for user %s: %w", actor.UserID.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: listing %s is not in favourites", ErrNotFound, listingID.Hex())
	}
	return nil
}

// List returns the actor's favourites, newest first, each paired with the
// current state of its listing. Listings no longer visible to the actor
// (removed by an admin, or unpublished by the seller) come back with a nil
// Listing so clients can show a tombstone instead of stale data.
func (s *favouriteService) List(ctx context.Context, actor Actor) ([]models.FavouriteWithListing, error) {
	if !actor.Known() {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(favouritesCollection).Find(ctx, bson.M{"user_id": *actor.UserID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites for user %s: %w", actor.UserID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var favs []models.Favourite
	if err := cursor.All(ctx, &favs); err != nil {
		return nil, fmt.Errorf("failed to decode favourites: %w", err)
	}
	if len(favs) == 0 {
		return []models.FavouriteWithListing{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ListingID)
	}
	listingCursor, err := s.db.Collection(listingsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to load favourite listings: %w", err)
	}
	defer listingCursor.Close(ctx)

	var listings []models.Listing
	if err := listingCursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode favourite listings: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.Listing, len(listings))
	for i := range listings {
		byID[listings[i].ID] = &listings[i]
	}

	result := make([]models.FavouriteWithListing, 0, len(favs))
	for _, f := range favs {
		entry := models.FavouriteWithListing{Favourite: f}
		if l, ok := byID[f.ListingID]; ok && actor.CanSee(l) {
			entry.Listing = l
		}
		result = append(result, entry)
	}
	return result, nil
}

// Contains reports whether the actor has saved the given listing.
func (s *favouriteService) Contains(ctx context.Context, actor Actor, listingID primitive.ObjectID) (bool, error) {
	if !actor.Known() {
		return false, nil
	}
	filter := bson.M{"user_id": *actor.UserID, "listing_id": listingID}
	count, err := s.db.Collection(favouritesCollection).CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check favourite for user %s: %w", actor.UserID.Hex(), err)
	}
	return count > 0, nil
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/db"
	"motorbay/m1/internal/models"
	"motorbay/m1/internal/utils"
)

func setupTestDBFavourite(t *testing.T, dbName string) *mongo.Database {
	database := utils.SetupTestDB(t, dbName, favouritesCollection, listingsCollection, usersCollection)
	// The unique (user_id, listing_id) index is what makes Add idempotent.
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return database
}

func TestFavouriteService_AddIsIdempotent(t *testing.T) {
	database := setupTestDBFavourite(t, "testdb_favourite_add")
	svc := NewFavouriteService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	buyer := insertTestUser(t, database, "buyer@example.com", "Buyer", false, false)
	listing := insertTestListing(t, database, seller, "Published Car", models.StatusPublished)

	actor := ActorForUser(buyer)
	require.NoError(t, svc.Add(ctx, actor, listing.ID))
	require.NoError(t, svc.Add(ctx, actor, listing.ID))

	favs, err := svc.List(ctx, actor)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, listing.ID, favs[0].ListingID)
	require.NotNil(t, favs[0].Listing)
	assert.Equal(t, "Published Car", favs[0].Listing.Title)

	saved, err := svc.Contains(ctx, actor, listing.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestFavouriteService_AddRequiresVisibleListing(t *testing.T) {
	database := setupTestDBFavourite(t, "testdb_favourite_visibility")
	svc := NewFavouriteService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	buyer := insertTestUser(t, database, "buyer@example.com", "Buyer", false, false)
	draft := insertTestListing(t, database, seller, "Draft Car", models.StatusDraft)

	err := svc.Add(ctx, ActorForUser(buyer), draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner can favourite their own draft.
	assert.NoError(t, svc.Add(ctx, ActorForUser(seller), draft.ID))

	assert.ErrorIs(t, svc.Add(ctx, Guest(), draft.ID), ErrForbidden)
}

func TestFavouriteService_AddAllowedWhileSuspended(t *testing.T) {
	database := setupTestDBFavourite(t, "testdb_favourite_suspended")
	svc := NewFavouriteService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	listing := insertTestListing(t, database, seller, "Published Car", models.StatusPublished)

	// Suspension blocks selling and messaging, not browsing; saving a
	// listing stays available.
	suspended := insertTestUser(t, database, "sus@example.com", "Sus", false, true)
	require.NoError(t, svc.Add(ctx, ActorForUser(suspended), listing.ID))

	saved, err := svc.Contains(ctx, ActorForUser(suspended), listing.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestFavouriteService_RemoveAbsentIsNotFound(t *testing.T) {
	database := setupTestDBFavourite(t, "testdb_favourite_remove")
	svc := NewFavouriteService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	buyer := insertTestUser(t, database, "buyer@example.com", "Buyer", false, false)
	listing := insertTestListing(t, database, seller, "Published Car", models.StatusPublished)

	actor := ActorForUser(buyer)
	// Removing something never saved reports not-found.
	assert.ErrorIs(t, svc.Remove(ctx, actor, listing.ID), ErrNotFound)

	require.NoError(t, svc.Add(ctx, actor, listing.ID))
	require.NoError(t, svc.Remove(ctx, actor, listing.ID))

	saved, err := svc.Contains(ctx, actor, listing.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	// The second removal finds nothing left to delete.
	assert.ErrorIs(t, svc.Remove(ctx, actor, listing.ID), ErrNotFound)
}

func TestFavouriteService_ListTombstonesHiddenListings(t *testing.T) {
	database := setupTestDBFavourite(t, "testdb_favourite_tombstone")
	svc := NewFavouriteService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	buyer := insertTestUser(t, database, "buyer@example.com", "Buyer", false, false)
	listing := insertTestListing(t, database, seller, "Published Car", models.StatusPublished)

	actor := ActorForUser(buyer)
	require.NoError(t, svc.Add(ctx, actor, listing.ID))

	// The seller pulls the listing down; the favourite entry stays but its
	// listing snapshot goes nil.
	_, err := database.Collection(listingsCollection).UpdateByID(ctx, listing.ID,
		map[string]interface{}{"$set": map[string]interface{}{"status": models.StatusUnpublished}})
	require.NoError(t, err)

	favs, err := svc.List(ctx, actor)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, listing.ID, favs[0].ListingID)
	assert.Nil(t, favs[0].Listing)
}

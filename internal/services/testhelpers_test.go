package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/models"
)

func insertTestUser(t *testing.T, db *mongo.Database, email, displayName string, isAdmin, isSuspended bool) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnota",
		DisplayName:  displayName,
		IsAdmin:      isAdmin,
		IsSuspended:  isSuspended,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := db.Collection(usersCollection).InsertOne(context.Background(), user)
	require.NoError(t, err)
	return user
}

func insertTestListing(t *testing.T, db *mongo.Database, seller *models.User, title string, status models.ListingStatus) *models.Listing {
	t.Helper()
	now := time.Now().UTC()
	listing := &models.Listing{
		ID:           primitive.NewObjectID(),
		SellerID:     seller.ID,
		SellerName:   seller.DisplayName,
		Title:        title,
		Description:  "A well looked after vehicle.",
		Price:        15000,
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2018,
		Mileage:      62000,
		FuelType:     models.FuelPetrol,
		Transmission: "automatic",
		BodyType:     "sedan",
		Condition:    "used",
		Location:     "Wellington",
		Photos:       "[]",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := db.Collection(listingsCollection).InsertOne(context.Background(), listing)
	require.NoError(t, err)
	return listing
}

// noopNotifier satisfies INotificationService for tests that do not care
// about emails.
type noopNotifier struct{}

func (noopNotifier) MessageReceived(context.Context, primitive.ObjectID, *models.MessageThread, *models.Message) {
}
func (noopNotifier) ListingApproved(context.Context, *models.Listing)         {}
func (noopNotifier) ListingRejected(context.Context, *models.Listing, string) {}
func (noopNotifier) ListingRemoved(context.Context, *models.Listing, string)  {}

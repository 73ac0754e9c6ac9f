package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favourite joins a user to a listing they saved. Unique per (user, listing).
type Favourite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ListingID primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// FavouriteWithListing carries the favourite plus a snapshot of its listing
// for the "my favourites" view.
type FavouriteWithListing struct {
	Favourite
	Listing *Listing `json:"listing"`
}

package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle attribute values. The core treats these as opaque labels; they are
// validated at the edge and never influence lifecycle or visibility rules.
const (
	FuelPetrol   = "petrol"
	FuelDiesel   = "diesel"
	FuelHybrid   = "hybrid"
	FuelElectric = "electric"
	FuelOther    = "other"
)

// Listing is a vehicle-for-sale advertisement. The seller is fixed at
// creation and never reassigned. RejectionReason and RemovalReason are set by
// the transition that produced the current status; the data model does not
// enforce mutual exclusivity between them.
type Listing struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID     primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	SellerName   string             `bson:"seller_name" json:"seller_name"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	Mileage      int                `bson:"mileage" json:"mileage"`
	FuelType     string             `bson:"fuel_type" json:"fuel_type"`
	Transmission string             `bson:"transmission" json:"transmission"`
	BodyType     string             `bson:"body_type" json:"body_type"`
	Condition    string             `bson:"condition" json:"condition"`
	Location     string             `bson:"location" json:"location"`
	// Photos is the stored JSON array of opaque photo keys. Always read it
	// through PhotoList, which degrades a malformed value to an empty list.
	Photos          string        `bson:"photos" json:"-"`
	Status          ListingStatus `bson:"status" json:"status"`
	RejectionReason *string       `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	RemovalReason   *string       `bson:"removal_reason,omitempty" json:"removal_reason,omitempty"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// PhotoList decodes the stored photo array. A malformed stored value is
// treated as "no photos" rather than surfaced as an error.
func (l *Listing) PhotoList() []string {
	if l.Photos == "" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(l.Photos), &photos); err != nil || photos == nil {
		return []string{}
	}
	return photos
}

// EncodePhotos serializes a photo key list for storage.
func EncodePhotos(photos []string) string {
	if photos == nil {
		photos = []string{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return "[]"
	}
	return string(data)
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. Admins moderate content and bypass
// ownership checks; suspended users keep read access but cannot create
// listings, threads or messages.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	DisplayName  string             `bson:"display_name" json:"display_name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	IsSuspended  bool               `bson:"is_suspended" json:"is_suspended"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageThread is a single conversation between one buyer and one listing's
// seller. At most one thread exists per (buyer, listing) pair; the unique
// index on those two fields is what makes the find-or-create in the thread
// service safe under concurrent duplicate requests.
type MessageThread struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ListingID    primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	ListingTitle string             `bson:"listing_title" json:"listing_title"`
	BuyerID      primitive.ObjectID `bson:"buyer_id" json:"buyer_id"`
	BuyerName    string             `bson:"buyer_name" json:"buyer_name"`
	SellerID     primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	SellerName   string             `bson:"seller_name" json:"seller_name"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	// UpdatedAt is bumped on every new message and drives inbox ordering.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Message is one entry in a thread, immutable once created. Ordering within a
// thread is by SentAt ascending.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ThreadID   primitive.ObjectID `bson:"thread_id" json:"thread_id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	SenderName string             `bson:"sender_name" json:"sender_name"`
	Body       string             `bson:"body" json:"body"`
	SentAt     time.Time          `bson:"sent_at" json:"sent_at"`
}

// ThreadSummary is a thread plus its inbox preview line.
type ThreadSummary struct {
	MessageThread      `bson:",inline"`
	LastMessagePreview string `bson:"-" json:"last_message_preview,omitempty"`
}

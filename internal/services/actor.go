package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motorbay/m1/internal/models"
)

// Actor is the per-request identity context: who is asking, whether they
// moderate, and whether they are suspended. A nil UserID means a guest.
// Suspension is read from the user record at request time, not from the
// token, so a mid-session suspension takes effect immediately.
type Actor struct {
	UserID      *primitive.ObjectID
	IsAdmin     bool
	IsSuspended bool
}

// Guest is the actor for unauthenticated requests.
func Guest() Actor {
	return Actor{}
}

// ActorForUser builds an actor from a loaded user record.
func ActorForUser(u *models.User) Actor {
	id := u.ID
	return Actor{UserID: &id, IsAdmin: u.IsAdmin, IsSuspended: u.IsSuspended}
}

// Is reports whether the actor is the given user.
func (a Actor) Is(id primitive.ObjectID) bool {
	return a.UserID != nil && *a.UserID == id
}

// Known reports whether the actor is authenticated at all.
func (a Actor) Known() bool {
	return a.UserID != nil
}

// CanSee decides listing visibility: published listings are visible to
// anyone, everything else only to the owning seller or an admin.
func (a Actor) CanSee(l *models.Listing) bool {
	if l.Status == models.StatusPublished {
		return true
	}
	return a.IsAdmin || a.Is(l.SellerID)
}

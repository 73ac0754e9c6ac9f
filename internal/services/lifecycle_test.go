package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motorbay/m1/internal/models"
)

func actorFor(id primitive.ObjectID, admin, suspended bool) Actor {
	return Actor{UserID: &id, IsAdmin: admin, IsSuspended: suspended}
}

func listingIn(status models.ListingStatus, sellerID primitive.ObjectID) *models.Listing {
	return &models.Listing{ID: primitive.NewObjectID(), SellerID: sellerID, Status: status}
}

func TestAuthorizeListingAction_SubmitOwnerOnly(t *testing.T) {
	seller := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	l := listingIn(models.StatusDraft, seller)
	assert.NoError(t, AuthorizeListingAction(actorFor(seller, false, false), l, ActionSubmit, ""))

	err := AuthorizeListingAction(actorFor(stranger, false, false), l, ActionSubmit, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins are not the seller; submitting on someone's behalf is not a thing.
	err = AuthorizeListingAction(actorFor(stranger, true, false), l, ActionSubmit, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeListingAction_SubmitFromRejected(t *testing.T) {
	seller := primitive.NewObjectID()
	l := listingIn(models.StatusRejected, seller)
	assert.NoError(t, AuthorizeListingAction(actorFor(seller, false, false), l, ActionSubmit, ""))
}

func TestAuthorizeListingAction_SubmitWrongStateIsConflict(t *testing.T) {
	seller := primitive.NewObjectID()
	for _, status := range []models.ListingStatus{
		models.StatusPendingApproval,
		models.StatusPublished,
		models.StatusUnpublished,
		models.StatusRemoved,
	} {
		err := AuthorizeListingAction(actorFor(seller, false, false), listingIn(status, seller), ActionSubmit, "")
		assert.ErrorIs(t, err, ErrConflict, "submit from %s", status)
	}
}

func TestAuthorizeListingAction_ApproveRejectAdminOnly(t *testing.T) {
	seller := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	l := listingIn(models.StatusPendingApproval, seller)

	assert.NoError(t, AuthorizeListingAction(actorFor(admin, true, false), l, ActionApprove, ""))
	assert.ErrorIs(t, AuthorizeListingAction(actorFor(seller, false, false), l, ActionApprove, ""), ErrForbidden)

	assert.NoError(t, AuthorizeListingAction(actorFor(admin, true, false), l, ActionReject, "spam"))
	assert.ErrorIs(t, AuthorizeListingAction(actorFor(seller, false, false), l, ActionReject, "spam"), ErrForbidden)
}

func TestAuthorizeListingAction_RejectRequiresReason(t *testing.T) {
	admin := primitive.NewObjectID()
	l := listingIn(models.StatusPendingApproval, primitive.NewObjectID())

	err := AuthorizeListingAction(actorFor(admin, true, false), l, ActionReject, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	err = AuthorizeListingAction(actorFor(admin, true, false), l, ActionReject, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthorizeListingAction_RemoveFromAnyStateWithReason(t *testing.T) {
	admin := primitive.NewObjectID()
	seller := primitive.NewObjectID()

	for _, status := range models.AllListingStatuses {
		l := listingIn(status, seller)
		assert.NoError(t, AuthorizeListingAction(actorFor(admin, true, false), l, ActionRemove, "policy violation"), "remove from %s", status)
		assert.ErrorIs(t, AuthorizeListingAction(actorFor(admin, true, false), l, ActionRemove, ""), ErrInvalidInput)
		assert.ErrorIs(t, AuthorizeListingAction(actorFor(seller, false, false), l, ActionRemove, "reason"), ErrForbidden)
	}
}

func TestAuthorizeListingAction_UnpublishOwnerOrAdmin(t *testing.T) {
	seller := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	l := listingIn(models.StatusPublished, seller)

	assert.NoError(t, AuthorizeListingAction(actorFor(seller, false, false), l, ActionUnpublish, ""))
	assert.NoError(t, AuthorizeListingAction(actorFor(admin, true, false), l, ActionUnpublish, ""))
	assert.ErrorIs(t, AuthorizeListingAction(actorFor(stranger, false, false), l, ActionUnpublish, ""), ErrForbidden)

	// Suspended sellers may still pull their own listing down.
	assert.NoError(t, AuthorizeListingAction(actorFor(seller, false, true), l, ActionUnpublish, ""))

	err := AuthorizeListingAction(actorFor(seller, false, false), listingIn(models.StatusDraft, seller), ActionUnpublish, "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthorizeListingAction_SuspensionBlocksEditAndSubmit(t *testing.T) {
	seller := primitive.NewObjectID()
	l := listingIn(models.StatusDraft, seller)
	suspended := actorFor(seller, false, true)

	assert.ErrorIs(t, AuthorizeListingAction(suspended, l, ActionEdit, ""), ErrForbidden)
	assert.ErrorIs(t, AuthorizeListingAction(suspended, l, ActionSubmit, ""), ErrForbidden)
}

func TestAuthorizeListingAction_EditStates(t *testing.T) {
	seller := primitive.NewObjectID()
	admin := primitive.NewObjectID()

	assert.NoError(t, AuthorizeListingAction(actorFor(seller, false, false), listingIn(models.StatusDraft, seller), ActionEdit, ""))
	assert.NoError(t, AuthorizeListingAction(actorFor(seller, false, false), listingIn(models.StatusRejected, seller), ActionEdit, ""))
	assert.ErrorIs(t, AuthorizeListingAction(actorFor(seller, false, false), listingIn(models.StatusPublished, seller), ActionEdit, ""), ErrConflict)

	// Admins may edit regardless of state.
	assert.NoError(t, AuthorizeListingAction(actorFor(admin, true, false), listingIn(models.StatusPublished, seller), ActionEdit, ""))
}

func TestTransitionTarget(t *testing.T) {
	assert.Equal(t, models.StatusPendingApproval, TransitionTarget(ActionSubmit))
	assert.Equal(t, models.StatusPublished, TransitionTarget(ActionApprove))
	assert.Equal(t, models.StatusRejected, TransitionTarget(ActionReject))
	assert.Equal(t, models.StatusUnpublished, TransitionTarget(ActionUnpublish))
	assert.Equal(t, models.StatusRemoved, TransitionTarget(ActionRemove))
}

func TestActorCanSee(t *testing.T) {
	seller := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	admin := primitive.NewObjectID()

	published := listingIn(models.StatusPublished, seller)
	draft := listingIn(models.StatusDraft, seller)

	assert.True(t, Guest().CanSee(published))
	assert.False(t, Guest().CanSee(draft))
	assert.True(t, actorFor(seller, false, false).CanSee(draft))
	assert.False(t, actorFor(stranger, false, false).CanSee(draft))
	assert.True(t, actorFor(admin, true, false).CanSee(draft))
}

package services

import (
	"fmt"
	"strings"

	"motorbay/m1/internal/models"
)

// ListingAction is a requested operation against a listing's lifecycle.
type ListingAction string

const (
	ActionEdit      ListingAction = "edit"
	ActionSubmit    ListingAction = "submit"
	ActionApprove   ListingAction = "approve"
	ActionReject    ListingAction = "reject"
	ActionUnpublish ListingAction = "unpublish"
	ActionRemove    ListingAction = "remove"
)

// actorRule names who may trigger an action.
type actorRule int

const (
	ownerOnly actorRule = iota
	ownerOrAdmin
	adminOnly
)

// transitionRule is one row of the lifecycle table. A nil from list means the
// action is valid from any status. The table is the single source of truth:
// handlers and services never re-derive these rules.
type transitionRule struct {
	from           []models.ListingStatus
	to             models.ListingStatus
	who            actorRule
	needsReason    bool
	blockSuspended bool
	// adminSkipsFrom lets an admin bypass the status precondition (edit only).
	adminSkipsFrom bool
}

var listingTransitions = map[ListingAction]transitionRule{
	ActionEdit: {
		from:           []models.ListingStatus{models.StatusDraft, models.StatusRejected},
		who:            ownerOrAdmin,
		blockSuspended: true,
		adminSkipsFrom: true,
	},
	ActionSubmit: {
		from:           []models.ListingStatus{models.StatusDraft, models.StatusRejected},
		to:             models.StatusPendingApproval,
		who:            ownerOnly,
		blockSuspended: true,
	},
	ActionApprove: {
		from: []models.ListingStatus{models.StatusPendingApproval},
		to:   models.StatusPublished,
		who:  adminOnly,
	},
	ActionReject: {
		from:        []models.ListingStatus{models.StatusPendingApproval},
		to:          models.StatusRejected,
		who:         adminOnly,
		needsReason: true,
	},
	ActionUnpublish: {
		from: []models.ListingStatus{models.StatusPublished},
		to:   models.StatusUnpublished,
		who:  ownerOrAdmin,
	},
	ActionRemove: {
		to:          models.StatusRemoved,
		who:         adminOnly,
		needsReason: true,
	},
}

// AuthorizeListingAction is the single authorization and precondition check
// for every lifecycle operation. It returns nil when the actor may perform
// the action on the listing in its current state, or one of the sentinel
// error kinds: ErrForbidden for actor problems, ErrConflict for wrong-state,
// ErrInvalidInput for a missing reason.
func AuthorizeListingAction(actor Actor, l *models.Listing, action ListingAction, reason string) error {
	rule, ok := listingTransitions[action]
	if !ok {
		return fmt.Errorf("%w: unknown listing action %q", ErrInvalidInput, action)
	}

	switch rule.who {
	case ownerOnly:
		if !actor.Is(l.SellerID) {
			return fmt.Errorf("%w: only the seller may %s this listing", ErrForbidden, action)
		}
	case ownerOrAdmin:
		if !actor.Is(l.SellerID) && !actor.IsAdmin {
			return fmt.Errorf("%w: only the seller or an administrator may %s this listing", ErrForbidden, action)
		}
	case adminOnly:
		if !actor.IsAdmin {
			return fmt.Errorf("%w: administrator privileges required to %s a listing", ErrForbidden, action)
		}
	}

	if rule.blockSuspended && actor.IsSuspended && !actor.IsAdmin {
		return fmt.Errorf("%w: account is suspended", ErrForbidden)
	}

	if rule.from != nil && !(rule.adminSkipsFrom && actor.IsAdmin) {
		allowed := false
		for _, s := range rule.from {
			if l.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: cannot %s a listing in status %q", ErrConflict, action, l.Status)
		}
	}

	if rule.needsReason && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a reason is required to %s a listing", ErrInvalidInput, action)
	}

	return nil
}

// TransitionTarget returns the status an action moves a listing into.
// ActionEdit has no target; callers never ask for one.
func TransitionTarget(action ListingAction) models.ListingStatus {
	return listingTransitions[action].to
}

package models

// ListingStatus is the moderation state of a listing. Every status a listing
// can be in is one of these six values; code that switches on a status lists
// all of them so a new status fails to compile rather than falling through.
type ListingStatus string

const (
	StatusDraft           ListingStatus = "draft"
	StatusPendingApproval ListingStatus = "pending_approval"
	StatusPublished       ListingStatus = "published"
	StatusRejected        ListingStatus = "rejected"
	StatusUnpublished     ListingStatus = "unpublished"
	StatusRemoved         ListingStatus = "removed"
)

// AllListingStatuses lists every defined status, in lifecycle order.
var AllListingStatuses = []ListingStatus{
	StatusDraft,
	StatusPendingApproval,
	StatusPublished,
	StatusRejected,
	StatusUnpublished,
	StatusRemoved,
}

// ParseListingStatus converts a wire value into a ListingStatus.
func ParseListingStatus(s string) (ListingStatus, bool) {
	switch ListingStatus(s) {
	case StatusDraft:
		return StatusDraft, true
	case StatusPendingApproval:
		return StatusPendingApproval, true
	case StatusPublished:
		return StatusPublished, true
	case StatusRejected:
		return StatusRejected, true
	case StatusUnpublished:
		return StatusUnpublished, true
	case StatusRemoved:
		return StatusRemoved, true
	}
	return "", false
}

// Valid reports whether s is one of the six defined statuses.
func (s ListingStatus) Valid() bool {
	_, ok := ParseListingStatus(string(s))
	return ok
}

// Editable reports whether the owner may still edit and re-submit a listing
// in this status.
func (s ListingStatus) Editable() bool {
	switch s {
	case StatusDraft, StatusRejected:
		return true
	case StatusPendingApproval, StatusPublished, StatusUnpublished, StatusRemoved:
		return false
	}
	return false
}

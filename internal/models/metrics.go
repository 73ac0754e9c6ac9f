package models

// Metrics is the admin dashboard snapshot, recomputed per request from the
// authoritative collection counts.
type Metrics struct {
	TotalUsers        int64 `json:"total_users"`
	TotalListings     int64 `json:"total_listings"`
	PublishedListings int64 `json:"published_listings"`
	PendingListings   int64 `json:"pending_listings"`
	RejectedListings  int64 `json:"rejected_listings"`
	TotalMessages     int64 `json:"total_messages"`
	TotalReports      int64 `json:"total_reports"`
}

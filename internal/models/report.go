package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportReason categorizes an abuse report.
type ReportReason string

const (
	ReportReasonScam       ReportReason = "scam"
	ReportReasonMisleading ReportReason = "misleading"
	ReportReasonOffensive  ReportReason = "offensive"
	ReportReasonOther      ReportReason = "other"
)

// ParseReportReason converts a wire value into a ReportReason.
func ParseReportReason(s string) (ReportReason, bool) {
	switch ReportReason(s) {
	case ReportReasonScam:
		return ReportReasonScam, true
	case ReportReasonMisleading:
		return ReportReasonMisleading, true
	case ReportReasonOffensive:
		return ReportReasonOffensive, true
	case ReportReasonOther:
		return ReportReasonOther, true
	}
	return "", false
}

// Valid reports whether r is one of the defined reasons.
func (r ReportReason) Valid() bool {
	_, ok := ParseReportReason(string(r))
	return ok
}

// Report is an append-only abuse record against a listing. The same reporter
// may file any number of reports against the same listing.
type Report struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ListingID    primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	ListingTitle string             `bson:"listing_title" json:"listing_title"`
	ReporterID   primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	ReporterName string             `bson:"reporter_name" json:"reporter_name"`
	Reason       ReportReason       `bson:"reason" json:"reason"`
	Details      string             `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

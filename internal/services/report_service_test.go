package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/models"
	"motorbay/m1/internal/utils"
)

func setupTestDBReport(t *testing.T, dbName string) *mongo.Database {
	return utils.SetupTestDB(t, dbName, reportsCollection, listingsCollection, usersCollection)
}

func TestReportService_CreateIsAppendOnly(t *testing.T) {
	database := setupTestDBReport(t, "testdb_report_create")
	svc := NewReportService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	reporter := insertTestUser(t, database, "reporter@example.com", "Reporter", false, false)
	admin := insertTestUser(t, database, "admin@example.com", "Admin", true, false)
	listing := insertTestListing(t, database, seller, "Suspicious Car", models.StatusPublished)

	actor := ActorForUser(reporter)
	first, err := svc.Create(ctx, actor, listing.ID, models.ReportReasonScam, "Asked for a deposit up front.")
	require.NoError(t, err)
	assert.Equal(t, "Suspicious Car", first.ListingTitle)
	assert.Equal(t, "Reporter", first.ReporterName)

	// The same user may report the same listing again; every report is kept.
	_, err = svc.Create(ctx, actor, listing.ID, models.ReportReasonMisleading, "Odometer reading looks wrong.")
	require.NoError(t, err)

	reports, err := svc.ListForListing(ctx, ActorForUser(admin), listing.ID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Oldest first, so a moderator reads the history in order.
	assert.Equal(t, models.ReportReasonScam, reports[0].Reason)
	assert.Equal(t, models.ReportReasonMisleading, reports[1].Reason)
}

func TestReportService_CreateValidation(t *testing.T) {
	database := setupTestDBReport(t, "testdb_report_validation")
	svc := NewReportService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	reporter := insertTestUser(t, database, "reporter@example.com", "Reporter", false, false)
	listing := insertTestListing(t, database, seller, "Car", models.StatusPublished)
	actor := ActorForUser(reporter)

	_, err := svc.Create(ctx, actor, listing.ID, "spam", "details")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// A bare "other" report is fine; details are always optional.
	_, err = svc.Create(ctx, actor, listing.ID, models.ReportReasonOther, "  ")
	assert.NoError(t, err)

	_, err = svc.Create(ctx, actor, listing.ID, models.ReportReasonScam, strings.Repeat("a", maxReportDetailsLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, Guest(), listing.ID, models.ReportReasonScam, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Reporting a listing you cannot see reads as not-found.
	draft := insertTestListing(t, database, seller, "Draft Car", models.StatusDraft)
	_, err = svc.Create(ctx, actor, draft.ID, models.ReportReasonScam, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_ListIsAdminOnly(t *testing.T) {
	database := setupTestDBReport(t, "testdb_report_list")
	svc := NewReportService(database)
	ctx := context.Background()

	seller := insertTestUser(t, database, "seller@example.com", "Seller", false, false)
	reporter := insertTestUser(t, database, "reporter@example.com", "Reporter", false, false)
	admin := insertTestUser(t, database, "admin@example.com", "Admin", true, false)
	listing := insertTestListing(t, database, seller, "Car", models.StatusPublished)

	_, err := svc.Create(ctx, ActorForUser(reporter), listing.ID, models.ReportReasonOffensive, "")
	require.NoError(t, err)

	_, err = svc.List(ctx, ActorForUser(reporter), 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.ListForListing(ctx, ActorForUser(reporter), listing.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	page, err := svc.List(ctx, ActorForUser(admin), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, listing.ID, page.Items[0].ListingID)
}

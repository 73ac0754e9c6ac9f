package handlers_test

import (
	"context"
	"io"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motorbay/m1/internal/models"
	"motorbay/m1/internal/services"
)

// --- IListingService ---

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, actor services.Actor, input services.ListingInput) (*models.Listing, error) {
	args := m.Called(ctx, actor, input)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) GetByID(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, actor services.Actor, listingID primitive.ObjectID, input services.ListingInput) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID, input)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Submit(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Approve(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Reject(ctx context.Context, actor services.Actor, listingID primitive.ObjectID, reason string) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID, reason)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Unpublish(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Remove(ctx context.Context, actor services.Actor, listingID primitive.ObjectID, reason string) (*models.Listing, error) {
	args := m.Called(ctx, actor, listingID, reason)
	if l := args.Get(0); l != nil {
		return l.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) Search(ctx context.Context, actor services.Actor, query services.ListingQuery) (*services.PagedListings, error) {
	args := m.Called(ctx, actor, query)
	if p := args.Get(0); p != nil {
		return p.(*services.PagedListings), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) AddPhoto(ctx context.Context, listingID primitive.ObjectID, photoKey string) error {
	args := m.Called(ctx, listingID, photoKey)
	return args.Error(0)
}

// --- IFavouriteService ---

type MockFavouriteService struct {
	mock.Mock
}

func (m *MockFavouriteService) Add(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) error {
	args := m.Called(ctx, actor, listingID)
	return args.Error(0)
}

func (m *MockFavouriteService) Remove(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) error {
	args := m.Called(ctx, actor, listingID)
	return args.Error(0)
}

func (m *MockFavouriteService) List(ctx context.Context, actor services.Actor) ([]models.FavouriteWithListing, error) {
	args := m.Called(ctx, actor)
	if f := args.Get(0); f != nil {
		return f.([]models.FavouriteWithListing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFavouriteService) Contains(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, actor, listingID)
	return args.Bool(0), args.Error(1)
}

// --- IThreadService ---

type MockThreadService struct {
	mock.Mock
}

func (m *MockThreadService) Open(ctx context.Context, actor services.Actor, listingID primitive.ObjectID, body string) (*models.MessageThread, *models.Message, error) {
	args := m.Called(ctx, actor, listingID, body)
	var thread *models.MessageThread
	var msg *models.Message
	if t := args.Get(0); t != nil {
		thread = t.(*models.MessageThread)
	}
	if v := args.Get(1); v != nil {
		msg = v.(*models.Message)
	}
	return thread, msg, args.Error(2)
}

func (m *MockThreadService) SendMessage(ctx context.Context, actor services.Actor, threadID primitive.ObjectID, body string) (*models.Message, error) {
	args := m.Called(ctx, actor, threadID, body)
	if v := args.Get(0); v != nil {
		return v.(*models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) ListThreads(ctx context.Context, actor services.Actor) ([]models.ThreadSummary, error) {
	args := m.Called(ctx, actor)
	if v := args.Get(0); v != nil {
		return v.([]models.ThreadSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) GetThread(ctx context.Context, actor services.Actor, threadID primitive.ObjectID) (*models.MessageThread, error) {
	args := m.Called(ctx, actor, threadID)
	if v := args.Get(0); v != nil {
		return v.(*models.MessageThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) ListMessages(ctx context.Context, actor services.Actor, threadID primitive.ObjectID) ([]models.Message, error) {
	args := m.Called(ctx, actor, threadID)
	if v := args.Get(0); v != nil {
		return v.([]models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// --- IUserService ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password, displayName, phone, location string) (*models.User, error) {
	args := m.Called(ctx, email, password, displayName, phone, location)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, actor services.Actor, page, pageSize int) (*services.PagedUsers, error) {
	args := m.Called(ctx, actor, page, pageSize)
	if v := args.Get(0); v != nil {
		return v.(*services.PagedUsers), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Suspend(ctx context.Context, actor services.Actor, userID primitive.ObjectID) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

func (m *MockUserService) Unsuspend(ctx context.Context, actor services.Actor, userID primitive.ObjectID) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

// --- IReportService ---

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Create(ctx context.Context, actor services.Actor, listingID primitive.ObjectID, reason models.ReportReason, details string) (*models.Report, error) {
	args := m.Called(ctx, actor, listingID, reason, details)
	if v := args.Get(0); v != nil {
		return v.(*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, actor services.Actor, page, pageSize int) (*services.PagedReports, error) {
	args := m.Called(ctx, actor, page, pageSize)
	if v := args.Get(0); v != nil {
		return v.(*services.PagedReports), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) ListForListing(ctx context.Context, actor services.Actor, listingID primitive.ObjectID) ([]models.Report, error) {
	args := m.Called(ctx, actor, listingID)
	if v := args.Get(0); v != nil {
		return v.([]models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

// --- IMetricsService ---

type MockMetricsService struct {
	mock.Mock
}

func (m *MockMetricsService) Snapshot(ctx context.Context, actor services.Actor) (*models.Metrics, error) {
	args := m.Called(ctx, actor)
	if v := args.Get(0); v != nil {
		return v.(*models.Metrics), args.Error(1)
	}
	return nil, args.Error(1)
}

// --- INotificationService ---

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) MessageReceived(ctx context.Context, recipientID primitive.ObjectID, thread *models.MessageThread, msg *models.Message) {
	m.Called(ctx, recipientID, thread, msg)
}

func (m *MockNotificationService) ListingApproved(ctx context.Context, listing *models.Listing) {
	m.Called(ctx, listing)
}

func (m *MockNotificationService) ListingRejected(ctx context.Context, listing *models.Listing, reason string) {
	m.Called(ctx, listing, reason)
}

func (m *MockNotificationService) ListingRemoved(ctx context.Context, listing *models.Listing, reason string) {
	m.Called(ctx, listing, reason)
}

// --- IS3Storage ---

type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, userID, listingID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, userID, listingID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Storage) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

// --- IAsynqClient ---

type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if v := args.Get(0); v != nil {
		return v.(*asynq.TaskInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

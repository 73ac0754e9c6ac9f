package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motorbay/m1/internal/api/handlers"
	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/models"
	"motorbay/m1/internal/services"
	"motorbay/m1/internal/tasks"
)

// withActor injects a resolved actor the way the auth middleware would.
func withActor(actor services.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyActor, actor)
		c.Next()
	}
}

func testActor() (services.Actor, primitive.ObjectID) {
	id := primitive.NewObjectID()
	return services.Actor{UserID: &id}, id
}

func sampleListing(sellerID primitive.ObjectID, status models.ListingStatus) *models.Listing {
	return &models.Listing{
		ID:       primitive.NewObjectID(),
		SellerID: sellerID,
		Title:    "2018 Toyota Corolla",
		Price:    15000,
		Make:     "Toyota",
		Model:    "Corolla",
		Photos:   `["photos/a.jpg"]`,
		Status:   status,
	}
}

func setupListingRouter(actor services.Actor, listingSvc services.IListingService, favSvc services.IFavouriteService, storageSvc *MockS3Storage, taskClient handlers.IAsynqClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewListingHandler(listingSvc, favSvc, storageSvc, taskClient)
	r := gin.New()
	r.Use(withActor(actor))
	r.GET("/v1/listings", h.Search)
	r.GET("/v1/listings/:id", h.Get)
	r.POST("/v1/listings", h.Create)
	r.PUT("/v1/listings/:id", h.Update)
	r.POST("/v1/listings/:id/submit", h.Submit)
	r.POST("/v1/listings/:id/unpublish", h.Unpublish)
	r.POST("/v1/listings/:id/photos/upload-url", h.PhotoUploadURL)
	r.POST("/v1/listings/:id/photos/complete", h.PhotoComplete)
	r.GET("/v1/my/listings", h.Mine)
	return r
}

func TestListingHandler_GetDecodesPhotosAndFavouriteFlag(t *testing.T) {
	actor, userID := testActor()
	listingSvc := new(MockListingService)
	favSvc := new(MockFavouriteService)
	router := setupListingRouter(actor, listingSvc, favSvc, new(MockS3Storage), new(MockAsynqClient))

	listing := sampleListing(userID, models.StatusPublished)
	listingSvc.On("GetByID", mock.Anything, actor, listing.ID).Return(listing, nil)
	favSvc.On("Contains", mock.Anything, actor, listing.ID).Return(true, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listings/"+listing.ID.Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Listing     handlers.ListingResponse `json:"listing"`
		IsFavourite bool                     `json:"is_favourite"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsFavourite)
	assert.Equal(t, []string{"photos/a.jpg"}, resp.Listing.Photos)
}

func TestListingHandler_GetNotFound(t *testing.T) {
	actor, _ := testActor()
	listingSvc := new(MockListingService)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	id := primitive.NewObjectID()
	listingSvc.On("GetByID", mock.Anything, actor, id).Return(nil, fmt.Errorf("%w: listing", services.ErrNotFound))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listings/"+id.Hex(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListingHandler_GetRejectsMalformedID(t *testing.T) {
	actor, _ := testActor()
	router := setupListingRouter(actor, new(MockListingService), new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listings/not-an-id", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHandler_Create(t *testing.T) {
	actor, userID := testActor()
	listingSvc := new(MockListingService)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	created := sampleListing(userID, models.StatusDraft)
	listingSvc.On("Create", mock.Anything, actor, mock.MatchedBy(func(in services.ListingInput) bool {
		return in.Title == "2018 Toyota Corolla" && in.Price == 15000
	})).Return(created, nil)

	body, _ := json.Marshal(gin.H{
		"title": "2018 Toyota Corolla", "description": "Tidy", "price": 15000,
		"make": "Toyota", "model": "Corolla",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp handlers.ListingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusDraft, resp.Status)
}

func TestListingHandler_CreateRejectsMissingFields(t *testing.T) {
	actor, _ := testActor()
	router := setupListingRouter(actor, new(MockListingService), new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	body, _ := json.Marshal(gin.H{"title": "No price or make"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHandler_SubmitConflictMapsTo409(t *testing.T) {
	actor, _ := testActor()
	listingSvc := new(MockListingService)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	id := primitive.NewObjectID()
	listingSvc.On("Submit", mock.Anything, actor, id).
		Return(nil, fmt.Errorf("%w: cannot submit", services.ErrConflict))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listings/"+id.Hex()+"/submit", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListingHandler_SearchPassesFilters(t *testing.T) {
	actor, _ := testActor()
	listingSvc := new(MockListingService)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	listingSvc.On("Search", mock.Anything, actor, mock.MatchedBy(func(q services.ListingQuery) bool {
		return q.Make == "Toyota" && q.PriceMax != nil && *q.PriceMax == 20000 &&
			q.YearMin != nil && *q.YearMin == 2015 && q.Page == 2
	})).Return(&services.PagedListings{Items: []models.Listing{}, Page: 2, PageSize: 20}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listings?make=Toyota&price_max=20000&year_min=2015&page=2", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	listingSvc.AssertExpectations(t)
}

func TestListingHandler_SearchRejectsBadNumbers(t *testing.T) {
	actor, _ := testActor()
	router := setupListingRouter(actor, new(MockListingService), new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listings?price_min=cheap", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHandler_MinePinsSellerToActor(t *testing.T) {
	actor, userID := testActor()
	listingSvc := new(MockListingService)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	listingSvc.On("Search", mock.Anything, actor, mock.MatchedBy(func(q services.ListingQuery) bool {
		return q.SellerID != nil && *q.SellerID == userID
	})).Return(&services.PagedListings{Items: []models.Listing{}, Page: 1, PageSize: 20}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/my/listings", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	listingSvc.AssertExpectations(t)
}

func TestListingHandler_PhotoUploadURL(t *testing.T) {
	actor, userID := testActor()
	listingSvc := new(MockListingService)
	storageSvc := new(MockS3Storage)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), storageSvc, new(MockAsynqClient))

	listing := sampleListing(userID, models.StatusDraft)
	listingSvc.On("GetByID", mock.Anything, actor, listing.ID).Return(listing, nil)
	storageSvc.On("GeneratePresignedPutURL", mock.Anything, userID.Hex(), listing.ID.Hex(), "car.jpg", "image/jpeg").
		Return("https://s3.example.com/presigned", "uploads/key.jpg", nil)

	body, _ := json.Marshal(gin.H{"filename": "car.jpg", "content_type": "image/jpeg"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listings/"+listing.ID.Hex()+"/photos/upload-url", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://s3.example.com/presigned", resp["upload_url"])
	assert.Equal(t, "uploads/key.jpg", resp["object_key"])
}

func TestListingHandler_PhotoUploadURLRequiresEditableListing(t *testing.T) {
	actor, userID := testActor()
	listingSvc := new(MockListingService)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), new(MockAsynqClient))

	// Published listings are not editable by their owner, so no upload URL.
	listing := sampleListing(userID, models.StatusPublished)
	listingSvc.On("GetByID", mock.Anything, actor, listing.ID).Return(listing, nil)

	body, _ := json.Marshal(gin.H{"filename": "car.jpg", "content_type": "image/jpeg"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listings/"+listing.ID.Hex()+"/photos/upload-url", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListingHandler_PhotoCompleteEnqueuesProcessing(t *testing.T) {
	actor, userID := testActor()
	listingSvc := new(MockListingService)
	taskClient := new(MockAsynqClient)
	router := setupListingRouter(actor, listingSvc, new(MockFavouriteService), new(MockS3Storage), taskClient)

	listing := sampleListing(userID, models.StatusDraft)
	listingSvc.On("GetByID", mock.Anything, actor, listing.ID).Return(listing, nil)
	taskClient.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		if task.Type() != tasks.TypePhotoProcess {
			return false
		}
		var p tasks.PhotoTaskPayload
		return json.Unmarshal(task.Payload(), &p) == nil &&
			p.ListingID == listing.ID.Hex() && p.ObjectKey == "uploads/key.jpg"
	}), mock.Anything).Return(&asynq.TaskInfo{}, nil)

	body, _ := json.Marshal(gin.H{"object_key": "uploads/key.jpg"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listings/"+listing.ID.Hex()+"/photos/complete", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	taskClient.AssertExpectations(t)
}

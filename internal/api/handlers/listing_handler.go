package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/services"
	"motorbay/m1/internal/storage"
	"motorbay/m1/internal/tasks"
)

// IAsynqClient defines the interface for the Asynq client methods used by
// handlers. This allows easier mocking than using the concrete asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ListingHandler handles listing CRUD, lifecycle and photo endpoints.
type ListingHandler struct {
	listingService   services.IListingService
	favouriteService services.IFavouriteService
	storageService   storage.IS3Storage
	taskClient       IAsynqClient
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(
	listingService services.IListingService,
	favouriteService services.IFavouriteService,
	storageService storage.IS3Storage,
	taskClient IAsynqClient,
) *ListingHandler {
	return &ListingHandler{
		listingService:   listingService,
		favouriteService: favouriteService,
		storageService:   storageService,
		taskClient:       taskClient,
	}
}

type listingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Price        float64  `json:"price" binding:"required"`
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	Year         int      `json:"year"`
	Mileage      int      `json:"mileage"`
	FuelType     string   `json:"fuel_type"`
	Transmission string   `json:"transmission"`
	BodyType     string   `json:"body_type"`
	Condition    string   `json:"condition"`
	Location     string   `json:"location"`
	Photos       []string `json:"photos"`
}

func (r *listingRequest) toInput() services.ListingInput {
	return services.ListingInput{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Make:         r.Make,
		Model:        r.Model,
		Year:         r.Year,
		Mileage:      r.Mileage,
		FuelType:     r.FuelType,
		Transmission: r.Transmission,
		BodyType:     r.BodyType,
		Condition:    r.Condition,
		Location:     r.Location,
		Photos:       r.Photos,
	}
}

// Search handles GET /v1/listings.
func (h *ListingHandler) Search(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	query, ok := parseListingQuery(c)
	if !ok {
		return
	}

	result, err := h.listingService.Search(c.Request.Context(), actor, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedListingsResponse(result))
}

// Mine handles GET /v1/my/listings: the actor's own listings in every status.
func (h *ListingHandler) Mine(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	query, ok := parseListingQuery(c)
	if !ok {
		return
	}
	query.SellerID = actor.UserID

	result, err := h.listingService.Search(c.Request.Context(), actor, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedListingsResponse(result))
}

// Get handles GET /v1/listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	isFavourite, err := h.favouriteService.Contains(c.Request.Context(), actor, id)
	if err != nil {
		log.Printf("Failed to check favourite state of %s: %v", id.Hex(), err)
	}
	c.JSON(http.StatusOK, gin.H{"listing": listingResponse(listing), "is_favourite": isFavourite})
}

// Create handles POST /v1/listings.
func (h *ListingHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), actor, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listingResponse(listing))
}

// Update handles PUT /v1/listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), actor, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listingResponse(listing))
}

// Submit handles POST /v1/listings/:id/submit.
func (h *ListingHandler) Submit(c *gin.Context) {
	h.lifecycle(c, func(ctx context.Context, actor services.Actor, id primitive.ObjectID) (interface{}, error) {
		l, err := h.listingService.Submit(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		return listingResponse(l), nil
	})
}

// Unpublish handles POST /v1/listings/:id/unpublish.
func (h *ListingHandler) Unpublish(c *gin.Context) {
	h.lifecycle(c, func(ctx context.Context, actor services.Actor, id primitive.ObjectID) (interface{}, error) {
		l, err := h.listingService.Unpublish(ctx, actor, id)
		if err != nil {
			return nil, err
		}
		return listingResponse(l), nil
	})
}

func (h *ListingHandler) lifecycle(c *gin.Context, op func(context.Context, services.Actor, primitive.ObjectID) (interface{}, error)) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	result, err := op(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type photoUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PhotoUploadURL handles POST /v1/listings/:id/photos/upload-url. It presigns
// a PUT to S3 and returns the URL plus the object key the client must report
// back once the upload finishes.
func (h *ListingHandler) PhotoUploadURL(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req photoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// Editing rules gate photo uploads too: only the owner of an editable
	// listing (or an admin) may attach photos.
	listing, err := h.listingService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.AuthorizeListingAction(actor, listing, services.ActionEdit, ""); err != nil {
		respondError(c, err)
		return
	}

	url, key, err := h.storageService.GeneratePresignedPutURL(
		c.Request.Context(), actor.UserID.Hex(), id.Hex(), req.Filename, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": url, "object_key": key})
}

type photoCompleteRequest struct {
	ObjectKey string `json:"object_key" binding:"required"`
}

// PhotoComplete handles POST /v1/listings/:id/photos/complete. The client
// calls it after finishing the presigned upload; processing and attachment
// happen asynchronously on the image worker.
func (h *ListingHandler) PhotoComplete(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req photoCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	listing, err := h.listingService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := services.AuthorizeListingAction(actor, listing, services.ActionEdit, ""); err != nil {
		respondError(c, err)
		return
	}

	task, err := tasks.NewPhotoProcessTask(id, req.ObjectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.taskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
}

func parseListingQuery(c *gin.Context) (services.ListingQuery, bool) {
	query := services.ListingQuery{
		Search:       c.Query("q"),
		Make:         c.Query("make"),
		Model:        c.Query("model"),
		FuelType:     c.Query("fuel_type"),
		Transmission: c.Query("transmission"),
		BodyType:     c.Query("body_type"),
		Location:     c.Query("location"),
		SortBy:       c.Query("sort"),
	}

	var err error
	if query.Page, err = intQuery(c, "page", 1); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return query, false
	}
	if query.PageSize, err = intQuery(c, "page_size", 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
		return query, false
	}

	if v := c.Query("price_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_min"})
			return query, false
		}
		query.PriceMin = &f
	}
	if v := c.Query("price_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_max"})
			return query, false
		}
		query.PriceMax = &f
	}
	for param, dest := range map[string]**int{
		"year_min":    &query.YearMin,
		"year_max":    &query.YearMax,
		"mileage_max": &query.MileageMax,
	} {
		if v := c.Query(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
				return query, false
			}
			*dest = &n
		}
	}

	if v := c.Query("seller_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller_id"})
			return query, false
		}
		query.SellerID = &id
	}
	return query, true
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

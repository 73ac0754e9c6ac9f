package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/models"
	"motorbay/m1/internal/services"
)

// AdminHandler handles the moderation and administration endpoints.
type AdminHandler struct {
	listingService services.IListingService
	reportService  services.IReportService
	metricsService services.IMetricsService
	userService    services.IUserService
	notifier       services.INotificationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	listingService services.IListingService,
	reportService services.IReportService,
	metricsService services.IMetricsService,
	userService services.IUserService,
	notifier services.INotificationService,
) *AdminHandler {
	return &AdminHandler{
		listingService: listingService,
		reportService:  reportService,
		metricsService: metricsService,
		userService:    userService,
		notifier:       notifier,
	}
}

// Listings handles GET /v1/admin/listings. With ?status= it filters to one
// status; ?status=pending_approval is the moderation queue.
func (h *AdminHandler) Listings(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	query, ok := parseListingQuery(c)
	if !ok {
		return
	}
	query.Unrestricted = true

	if v := c.Query("status"); v != "" {
		if _, valid := models.ParseListingStatus(v); !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		query.Status = v
	}

	result, err := h.listingService.Search(c.Request.Context(), actor, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagedListingsResponse(result))
}

// Approve handles POST /v1/admin/listings/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	listing, err := h.listingService.Approve(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.ListingApproved(c.Request.Context(), listing)
	c.JSON(http.StatusOK, listingResponse(listing))
}

type moderationReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject handles POST /v1/admin/listings/:id/reject. A reason is mandatory;
// it is stored on the listing and mailed to the seller.
func (h *AdminHandler) Reject(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req moderationReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a reason is required"})
		return
	}
	listing, err := h.listingService.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.ListingRejected(c.Request.Context(), listing, req.Reason)
	c.JSON(http.StatusOK, listingResponse(listing))
}

// Remove handles POST /v1/admin/listings/:id/remove.
func (h *AdminHandler) Remove(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req moderationReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a reason is required"})
		return
	}
	listing, err := h.listingService.Remove(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.ListingRemoved(c.Request.Context(), listing, req.Reason)
	c.JSON(http.StatusOK, listingResponse(listing))
}

// Reports handles GET /v1/admin/reports.
func (h *AdminHandler) Reports(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	pageSize, err := intQuery(c, "page_size", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
		return
	}

	result, err := h.reportService.List(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListingReports handles GET /v1/admin/listings/:id/reports.
func (h *AdminHandler) ListingReports(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	reports, err := h.reportService.ListForListing(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": reports})
}

// Metrics handles GET /v1/admin/metrics.
func (h *AdminHandler) Metrics(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	snapshot, err := h.metricsService.Snapshot(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Users handles GET /v1/admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	pageSize, err := intQuery(c, "page_size", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
		return
	}

	result, err := h.userService.List(c.Request.Context(), actor, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SuspendUser handles POST /v1/admin/users/:id/suspend.
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Suspend(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnsuspendUser handles POST /v1/admin/users/:id/unsuspend.
func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Unsuspend(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

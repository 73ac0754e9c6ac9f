package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/services"
)

// ThreadHandler handles buyer-seller messaging endpoints.
type ThreadHandler struct {
	threadService services.IThreadService
}

// NewThreadHandler creates a new ThreadHandler.
func NewThreadHandler(threadService services.IThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

type openThreadRequest struct {
	Body string `json:"body" binding:"required"`
}

// Open handles POST /v1/listings/:id/enquire. The first enquiry about a
// listing creates the thread; later ones append to it, so a buyer always has
// one conversation per listing.
func (h *ThreadHandler) Open(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	listingID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req openThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	thread, msg, err := h.threadService.Open(c.Request.Context(), actor, listingID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"thread": thread, "message": msg})
}

// List handles GET /v1/my/threads.
func (h *ThreadHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	threads, err := h.threadService.ListThreads(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": threads})
}

// Get handles GET /v1/threads/:id.
func (h *ThreadHandler) Get(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	threadID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	thread, err := h.threadService.GetThread(c.Request.Context(), actor, threadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// Messages handles GET /v1/threads/:id/messages.
func (h *ThreadHandler) Messages(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	threadID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	messages, err := h.threadService.ListMessages(c.Request.Context(), actor, threadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": messages})
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// Send handles POST /v1/threads/:id/messages.
func (h *ThreadHandler) Send(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	threadID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	msg, err := h.threadService.SendMessage(c.Request.Context(), actor, threadID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

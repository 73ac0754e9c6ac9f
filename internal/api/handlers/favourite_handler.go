package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/services"
)

// FavouriteHandler handles the saved-listings endpoints.
type FavouriteHandler struct {
	favouriteService services.IFavouriteService
}

// NewFavouriteHandler creates a new FavouriteHandler.
func NewFavouriteHandler(favouriteService services.IFavouriteService) *FavouriteHandler {
	return &FavouriteHandler{favouriteService: favouriteService}
}

// List handles GET /v1/my/favourites.
func (h *FavouriteHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	favs, err := h.favouriteService.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": favouriteResponses(favs)})
}

// Add handles PUT /v1/my/favourites/:listing_id. Saving the same listing
// twice succeeds with no effect, so the endpoint is safe to retry.
func (h *FavouriteHandler) Add(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "listing_id")
	if !ok {
		return
	}
	if err := h.favouriteService.Add(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /v1/my/favourites/:listing_id.
func (h *FavouriteHandler) Remove(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, ok := pathObjectID(c, "listing_id")
	if !ok {
		return
	}
	if err := h.favouriteService.Remove(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

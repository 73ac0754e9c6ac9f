package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motorbay/m1/internal/api/middleware"
	"motorbay/m1/internal/models"
	"motorbay/m1/internal/services"
)

// ReportHandler handles listing report intake.
type ReportHandler struct {
	reportService services.IReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.IReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type createReportRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Details string `json:"details"`
}

// Create handles POST /v1/listings/:id/report.
func (h *ReportHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	listingID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	reason, valid := models.ParseReportReason(req.Reason)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report reason"})
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), actor, listingID, reason, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

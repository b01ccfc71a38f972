package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/raidroad/roadwatch/internal/service"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Pointer fields so a legitimate 0.0 coordinate still passes "required".
type SubmitReportRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

// List handles GET /api/reports. Public: the live map is visible without a
// session.
func (h *ReportHandler) List(c *gin.Context) {
	views, err := h.reportService.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// Submit handles POST /api/report.
func (h *ReportHandler) Submit(c *gin.Context) {
	// 1. Resolve identity (set by AuthMiddleware)
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	// 2. Parse JSON request
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Report submission parsing failed",
			zap.String("username", username),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// 3. Call service
	report, err := h.reportService.Submit(username, *req.Lat, *req.Lon)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "ok",
		"report": report,
	})
}

// Delete handles DELETE /api/report/:id.
func (h *ReportHandler) Delete(c *gin.Context) {
	// 1. Resolve identity
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	// 2. Parse report ID from URL
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}

	// 3. Call service
	if err := h.reportService.Delete(reportID, username); err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotReportOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete report"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

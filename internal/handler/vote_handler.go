package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raidroad/roadwatch/internal/service"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

type VoteHandler struct {
	voteService *service.VoteService
}

func NewVoteHandler(voteService *service.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

type CastVoteRequest struct {
	ReportID uint64 `json:"report_id" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

// Cast handles POST /api/vote.
func (h *VoteHandler) Cast(c *gin.Context) {
	// 1. Resolve identity (set by AuthMiddleware)
	voter := c.GetString("username")
	if voter == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	// 2. Parse JSON request
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Vote request parsing failed",
			zap.String("voter", voter),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// 3. Call service
	if err := h.voteService.Cast(req.ReportID, voter, req.Type); err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSelfVote),
			errors.Is(err, service.ErrDuplicateVote),
			errors.Is(err, service.ErrInvalidVoteType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "voted"})
}

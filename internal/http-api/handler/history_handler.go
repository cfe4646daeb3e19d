package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookhaven/internal/http-api/dto"
	"bookhaven/internal/http-api/middleware"
	"bookhaven/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the reading history listing and the derived
// per-user statistics.
type HistoryHandler struct {
	historyService service.HistoryService
	statsService   service.StatsService
	logger         *slog.Logger
}

func NewHistoryHandler(historyService service.HistoryService, statsService service.StatsService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		statsService:   statsService,
		logger:         slog.Default(),
	}
}

// RegisterRoutes registers /history and /stats on the authenticated group
func (h *HistoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/history", h.GetHistory)
	rg.GET("/stats", h.GetStats)
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var q dto.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.historyService.List(ctx, userID, q.Page, q.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *HistoryHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.statsService.GetStats(ctx, userID)
	if err != nil {
		// a failed aggregation is a real failure, never an empty snapshot
		h.logger.Error("stats_aggregation_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reading stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

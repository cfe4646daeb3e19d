package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookhaven/internal/http-api/dto"
	"bookhaven/internal/http-api/middleware"
	"bookhaven/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// RegisterRoutes registers the progress routes under /books/:book_id
func (h *ProgressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:book_id/progress", h.UpdateProgress)
	rg.GET("/:book_id/progress", h.GetProgress)
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	historyID, err := h.progressService.Update(ctx, userID, c.Param("book_id"), req.CurrentPage, req.TotalPages)
	if errors.Is(err, service.ErrBookNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UpdateProgressResponse{
		Message:   "Reading progress updated successfully",
		HistoryID: historyID,
	})
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.progressService.Get(ctx, userID, c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// no record yet is a normal response, not a 404
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

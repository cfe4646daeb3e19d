package dto

// DTOs for reading-progress operations in HTTP API

type UpdateProgressRequest struct {
	CurrentPage int `json:"current_page" binding:"min=0"`
	TotalPages  int `json:"total_pages" binding:"min=0"`
}

type UpdateProgressResponse struct {
	Message   string `json:"message"`
	HistoryID string `json:"history_id"`
}

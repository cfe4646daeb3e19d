package dto

import (
	"time"

	"bookhaven/internal/http-api/models"
)

// HistoryQuery binds the query parameters of GET /api/history
type HistoryQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

// HistoryResponse: paginated reading history, most recently read first.
// Each entry carries its joined book; records whose book has been deleted
// are omitted.
type HistoryResponse struct {
	History []models.ProgressRecord `json:"history"`
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	Pages   int                     `json:"pages"`
}

// RecentBook is one of the most recently read books inside a stats snapshot.
type RecentBook struct {
	BookID      string    `json:"book_id"`
	Title       string    `json:"title"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	Progress    float64   `json:"progress"`
	LastRead    time.Time `json:"last_read"`
}

// StatsSnapshot: derived per-user reading statistics, computed on demand.
type StatsSnapshot struct {
	TotalBooksStarted         int          `json:"total_books_started"`
	BooksCompleted            int          `json:"books_completed"`
	BooksInProgress           int          `json:"books_in_progress"`
	TotalPagesRead            int          `json:"total_pages_read"`
	TotalPagesInProgressBooks int          `json:"total_pages_in_progress_books"`
	AvgPagesPerBook           float64      `json:"avg_pages_per_book"`
	AvgProgress               float64      `json:"avg_progress"`
	CompletionRate            float64      `json:"completion_rate"`
	RecentBooks               []RecentBook `json:"recent_books"`
}

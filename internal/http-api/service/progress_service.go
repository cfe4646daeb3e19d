package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bookhaven/internal/http-api/cache"
	"bookhaven/internal/http-api/models"
	"bookhaven/internal/http-api/repository"

	"github.com/google/uuid"
)

var ErrBookNotFound = errors.New("book not found")

type ProgressService interface {
	Update(ctx context.Context, userID, bookID string, currentPage, totalPages int) (string, error)
	Get(ctx context.Context, userID, bookID string) (*models.ProgressRecord, error)
}

type progressService struct {
	historyRepo repository.HistoryRepository
	bookRepo    repository.BookRepository
	statsCache  *cache.StatsCache
	logger      *slog.Logger
}

func NewProgressService(historyRepo repository.HistoryRepository, bookRepo repository.BookRepository, statsCache *cache.StatsCache) ProgressService {
	return &progressService{
		historyRepo: historyRepo,
		bookRepo:    bookRepo,
		statsCache:  statsCache,
		logger:      slog.Default(),
	}
}

// computeProgress derives the completion percentage. A non-positive page
// count yields 0 rather than a division by zero, and the result is clamped
// to [0, 100] so an off-by-one reading position cannot push it past 100.
func computeProgress(currentPage, totalPages int) float64 {
	if totalPages <= 0 {
		return 0
	}
	pct := float64(currentPage) / float64(totalPages) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Update upserts the caller's progress record for the book. The same
// (user, book) pair always maps onto one row; the percentage is recomputed
// here and never taken from input.
func (s *progressService) Update(ctx context.Context, userID, bookID string, currentPage, totalPages int) (string, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return "", ErrBookNotFound
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book == nil {
		return "", ErrBookNotFound
	}

	now := time.Now().UTC()
	rec := &models.ProgressRecord{
		UserID:             userID,
		BookID:             bookID,
		CurrentPage:        currentPage,
		TotalPages:         totalPages,
		ProgressPercentage: computeProgress(currentPage, totalPages),
		StartedReading:     now,
		LastRead:           now,
	}

	historyID, err := s.historyRepo.Upsert(ctx, rec)
	if err != nil {
		return "", err
	}

	// cached stats are stale now; a failed invalidation only delays
	// freshness until the TTL expires
	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed", "user_id", userID, "error", err)
	}

	return historyID, nil
}

// Get returns the caller's progress for the book, or (nil, nil) when no
// record exists. A malformed book id is treated as not found, never as a
// server error.
func (s *progressService) Get(ctx context.Context, userID, bookID string) (*models.ProgressRecord, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, nil
	}
	return s.historyRepo.Get(ctx, userID, bookID)
}

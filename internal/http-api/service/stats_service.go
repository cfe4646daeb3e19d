package service

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"bookhaven/internal/http-api/cache"
	"bookhaven/internal/http-api/dto"
	"bookhaven/internal/http-api/models"
	"bookhaven/internal/http-api/repository"
)

// completionThreshold classifies a book as finished. Kept just under 100
// to tolerate page-rounding slack in client-reported positions.
const completionThreshold = 99.9

// recentBooksLimit caps the recent activity list in a stats snapshot.
const recentBooksLimit = 5

type StatsService interface {
	GetStats(ctx context.Context, userID string) (*dto.StatsSnapshot, error)
}

type statsService struct {
	historyRepo repository.HistoryRepository
	statsCache  *cache.StatsCache
	logger      *slog.Logger
}

func NewStatsService(historyRepo repository.HistoryRepository, statsCache *cache.StatsCache) StatsService {
	return &statsService{
		historyRepo: historyRepo,
		statsCache:  statsCache,
		logger:      slog.Default(),
	}
}

// GetStats computes the user's aggregate reading statistics in one pass
// over their joined history. A user with no records gets an all-zero
// snapshot; a failed query propagates as an error so a store outage never
// masquerades as an empty history.
func (s *statsService) GetStats(ctx context.Context, userID string) (*dto.StatsSnapshot, error) {
	if cached, err := s.statsCache.Get(ctx, userID); err != nil {
		s.logger.Warn("stats_cache_read_failed", "user_id", userID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	records, err := s.historyRepo.AllWithBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := aggregateStats(records)

	if err := s.statsCache.Set(ctx, userID, snapshot); err != nil {
		s.logger.Warn("stats_cache_write_failed", "user_id", userID, "error", err)
	}

	return snapshot, nil
}

func aggregateStats(records []models.ProgressRecord) *dto.StatsSnapshot {
	snapshot := &dto.StatsSnapshot{RecentBooks: []dto.RecentBook{}}
	if len(records) == 0 {
		return snapshot
	}

	var pagesSum, pagesInProgressSum int
	var progressSum float64
	for _, rec := range records {
		pagesSum += rec.CurrentPage
		progressSum += rec.ProgressPercentage
		if rec.ProgressPercentage >= completionThreshold {
			snapshot.BooksCompleted++
		} else {
			pagesInProgressSum += rec.CurrentPage
		}
	}

	count := len(records)
	snapshot.TotalBooksStarted = count
	snapshot.BooksInProgress = count - snapshot.BooksCompleted
	snapshot.TotalPagesRead = pagesSum
	snapshot.TotalPagesInProgressBooks = pagesInProgressSum
	snapshot.AvgPagesPerBook = round1(float64(pagesSum) / float64(count))
	snapshot.AvgProgress = round1(progressSum / float64(count))
	snapshot.CompletionRate = round1(float64(snapshot.BooksCompleted) / float64(count) * 100)

	recent := make([]models.ProgressRecord, len(records))
	copy(recent, records)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].LastRead.After(recent[j].LastRead)
	})
	if len(recent) > recentBooksLimit {
		recent = recent[:recentBooksLimit]
	}
	for _, rec := range recent {
		rb := dto.RecentBook{
			BookID:      rec.BookID,
			CurrentPage: rec.CurrentPage,
			TotalPages:  rec.TotalPages,
			Progress:    rec.ProgressPercentage,
			LastRead:    rec.LastRead,
		}
		if rec.Book != nil {
			rb.Title = rec.Book.Title
		}
		snapshot.RecentBooks = append(snapshot.RecentBooks, rb)
	}

	return snapshot
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

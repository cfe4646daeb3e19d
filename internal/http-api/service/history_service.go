package service

import (
	"context"

	"bookhaven/internal/http-api/dto"
	"bookhaven/internal/http-api/models"
	"bookhaven/internal/http-api/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type HistoryService interface {
	List(ctx context.Context, userID string, page, limit int) (*dto.HistoryResponse, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
}

func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

// List returns one page of the user's reading history, most recently read
// first. Caller-supplied paging is normalized: page floors at 1, limit
// defaults to 10 and is capped at 100.
func (s *historyService) List(ctx context.Context, userID string, page, limit int) (*dto.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset := (page - 1) * limit
	history, err := s.historyRepo.ListWithBooks(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []models.ProgressRecord{}
	}

	total, err := s.historyRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.HistoryResponse{
		History: history,
		Total:   total,
		Page:    page,
		Pages:   int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"bookhaven/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository owns the per-(user, book) progress records in the
// `reading_history` table.
type HistoryRepository interface {
	Upsert(ctx context.Context, rec *models.ProgressRecord) (string, error)
	Get(ctx context.Context, userID, bookID string) (*models.ProgressRecord, error)
	ListWithBooks(ctx context.Context, userID string, offset, limit int) ([]models.ProgressRecord, error)
	AllWithBooks(ctx context.Context, userID string) ([]models.ProgressRecord, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Upsert inserts a new progress record or, when a row for the same
// (user_id, book_id) already exists, overwrites its position fields in a
// single atomic statement. started_reading and created_at survive the
// conflict path untouched, so concurrent calls for the same pair can never
// produce a second row. Returns the id of the surviving row.
func (r *historyRepository) Upsert(ctx context.Context, rec *models.ProgressRecord) (string, error) {
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"current_page",
					"total_pages",
					"progress_percentage",
					"last_read",
					"updated_at",
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(rec).Error
	if err != nil {
		return "", fmt.Errorf("upsert progress: %w", err)
	}
	return rec.ID, nil
}

// Get is a point lookup; a missing record is reported as (nil, nil), not
// as an error.
func (r *historyRepository) Get(ctx context.Context, userID, bookID string) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListWithBooks returns one page of the user's history, most recently read
// first. The inner join drops records whose book has been deleted.
func (r *historyRepository) ListWithBooks(ctx context.Context, userID string, offset, limit int) ([]models.ProgressRecord, error) {
	var list []models.ProgressRecord
	if err := r.db.WithContext(ctx).
		InnerJoins("Book").
		Where("reading_history.user_id = ?", userID).
		Order("reading_history.last_read DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return list, nil
}

// AllWithBooks returns every joined record for the user, for the stats
// aggregation pass.
func (r *historyRepository) AllWithBooks(ctx context.Context, userID string) ([]models.ProgressRecord, error) {
	var list []models.ProgressRecord
	if err := r.db.WithContext(ctx).
		InnerJoins("Book").
		Where("reading_history.user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("load history for stats: %w", err)
	}
	return list, nil
}

// CountByUser counts the user's progress rows before the join, matching
// the `total` the history listing reports.
func (r *historyRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookhaven/internal/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	GetAll(ctx context.Context, page, pageSize int, search, author, sortBy string) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id string) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// sortColumns whitelists the caller-facing sort keys
var sortColumns = map[string]string{
	"updated_at":       "updated_at desc",
	"created_at":       "created_at desc",
	"title":            "title asc",
	"author":           "author asc",
	"publication_date": "publication_date desc",
}

func (r *bookRepository) GetAll(ctx context.Context, page, pageSize int, search, author, sortBy string) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Book{})

	// case-insensitive partial match on title/description
	if s := strings.TrimSpace(search); s != "" {
		p := "%" + s + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", p, p)
	}
	if a := strings.TrimSpace(author); a != "" {
		query = query.Where("author ILIKE ?", "%"+a+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := sortColumns[sortBy]
	if !ok {
		order = sortColumns["updated_at"]
	}

	offset := (page - 1) * pageSize
	if err := query.
		Order(order).
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

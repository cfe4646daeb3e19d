package dto

import (
	"time"

	"bookhaven/internal/http-api/models"
)

// CreateBookRequest used for POST /api/books
type CreateBookRequest struct {
	Title           string     `json:"title" binding:"required"`
	Author          string     `json:"author" binding:"required"`
	Description     string     `json:"description"`
	Content         string     `json:"content" binding:"required"`
	CoverImage      string     `json:"cover_image"`
	Genre           string     `json:"genre"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

// UpdateBookRequest used for PUT /api/books/:book_id (partial updates allowed)
type UpdateBookRequest struct {
	Title           *string    `json:"title,omitempty"`
	Author          *string    `json:"author,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Content         *string    `json:"content,omitempty"`
	CoverImage      *string    `json:"cover_image,omitempty"`
	Genre           *string    `json:"genre,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

// ListBooksQuery binds the query parameters of GET /api/books
type ListBooksQuery struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Search string `form:"search"`
	Author string `form:"author"`
	Sort   string `form:"sort,default=updated_at"`
}

// BookListResponse: paginated book listing
type BookListResponse struct {
	Books []models.Book `json:"books"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

func (d CreateBookRequest) ToModel() models.Book {
	return models.Book{
		Title:           d.Title,
		Author:          d.Author,
		Description:     d.Description,
		Content:         d.Content,
		CoverImage:      d.CoverImage,
		Genre:           d.Genre,
		PublicationDate: d.PublicationDate,
	}
}

func (d UpdateBookRequest) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	if d.Description != nil {
		b.Description = *d.Description
	}
	if d.Content != nil {
		b.Content = *d.Content
	}
	if d.CoverImage != nil {
		b.CoverImage = *d.CoverImage
	}
	if d.Genre != nil {
		b.Genre = *d.Genre
	}
	if d.PublicationDate != nil {
		b.PublicationDate = d.PublicationDate
	}
}

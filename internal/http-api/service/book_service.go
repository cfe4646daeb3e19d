package service

import (
	"context"
	"strings"

	"bookhaven/internal/http-api/dto"
	"bookhaven/internal/http-api/models"
	"bookhaven/internal/http-api/repository"

	"github.com/google/uuid"
)

type BookService interface {
	List(ctx context.Context, q dto.ListBooksQuery) (*dto.BookListResponse, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, req dto.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, id string, req dto.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id string) error
}

type bookService struct {
	bookRepo repository.BookRepository
}

func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

// countPages is a crude proxy for page count: one page per blank-line
// separated paragraph of content. Real pagination happens client-side.
func countPages(content string) int {
	if content == "" {
		return 1
	}
	return len(strings.Split(content, "\n\n"))
}

func (s *bookService) List(ctx context.Context, q dto.ListBooksQuery) (*dto.BookListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	books, total, err := s.bookRepo.GetAll(ctx, q.Page, q.Limit, q.Search, q.Author, q.Sort)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}

	return &dto.BookListResponse{
		Books: books,
		Total: total,
		Page:  q.Page,
		Pages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

// Get returns the book, or (nil, nil) when it does not exist. A malformed
// id is treated as not found.
func (s *bookService) Get(ctx context.Context, id string) (*models.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) Create(ctx context.Context, req dto.CreateBookRequest) (*models.Book, error) {
	book := req.ToModel()
	book.TotalPages = countPages(book.Content)
	if err := s.bookRepo.Create(ctx, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *bookService) Update(ctx context.Context, id string, req dto.UpdateBookRequest) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	req.ApplyTo(book)
	if req.Content != nil {
		book.TotalPages = countPages(book.Content)
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrBookNotFound
	}
	// progress records intentionally survive book deletion; the history
	// join drops them from results
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return ErrBookNotFound
	}
	return nil
}

package ports

import (
	"context"

	"github.com/bookshelf/books-api/internal/core/domain"
)

// ListBooksInput is the DTO passed from the transport layer for GET /books.
type ListBooksInput struct {
	Page      int // 1-based; <= 0 means first page
	Size      int // <= 0 means default, capped at the service maximum
	SortBy    domain.SortField
	SortOrder domain.SortOrder
	Filter    domain.BookFilter
}

// ListBooksResult is a page of books plus the derived pagination metadata.
type ListBooksResult struct {
	Items []domain.Book
	Total int64
	Page  int
	Size  int
	Pages int
}

// CreateBookInput carries a new book and an optional client idempotency key.
type CreateBookInput struct {
	Data           domain.BookData
	IdempotencyKey string
}

// BookMutationResult reports the outcome of a write. Book is nil when Success is false.
type BookMutationResult struct {
	Success bool
	Book    *domain.Book
}

// BookService defines use-case operations for books.
type BookService interface {
	ListBooks(ctx context.Context, input ListBooksInput) (*ListBooksResult, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// CreateBook never returns store errors; they surface as Success=false.
	CreateBook(ctx context.Context, input CreateBookInput) BookMutationResult
	ReplaceBook(ctx context.Context, id string, data domain.BookData) (*BookMutationResult, error)
	PatchBook(ctx context.Context, id string, patch domain.BookPatch) (*BookMutationResult, error)
	DeleteBook(ctx context.Context, id string) (bool, error)
	AveragePriceByYear(ctx context.Context, year *int) ([]domain.YearPriceStat, error)
}

package ports

import (
	"context"

	"github.com/bookshelf/books-api/internal/core/domain"
)

// ListBooksQuery carries the already-resolved paging window, ordering and filter.
type ListBooksQuery struct {
	Skip      int64
	Limit     int64
	SortBy    domain.SortField // empty = identifier order
	SortOrder domain.SortOrder
	Filter    domain.BookFilter
}

// BookRepository defines persistence operations for books.
type BookRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	// Create stores a new book under a freshly generated identifier. Failures
	// wrap domain.ErrStoreWrite.
	Create(ctx context.Context, data domain.BookData) (*domain.Book, error)
	// Replace overwrites every non-id field and returns data with the id; it
	// does not read the document back.
	Replace(ctx context.Context, id string, data domain.BookData) (*domain.Book, error)
	// Patch applies the set fields only and returns the re-read document.
	Patch(ctx context.Context, id string, patch domain.BookPatch) (*domain.Book, error)
	// Delete reports whether a document was removed.
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, filter domain.BookFilter) (int64, error)
	List(ctx context.Context, query ListBooksQuery) ([]domain.Book, error)
	// AveragePriceByYear groups books by publication year, newest first. A nil
	// year covers every year.
	AveragePriceByYear(ctx context.Context, year *int) ([]domain.YearPriceStat, error)
}

// IdempotencyStore remembers which book a client-supplied idempotency key created.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (bookID string, found bool, err error)
	Remember(ctx context.Context, key, bookID string) error
}

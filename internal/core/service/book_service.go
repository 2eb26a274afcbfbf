package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bookshelf/books-api/internal/pkg/metrics"
	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// BookService implements ports.BookService.
type BookService struct {
	repo        ports.BookRepository
	idempotency ports.IdempotencyStore // optional
	logger      zerolog.Logger
}

// NewBookService wires the service. idempotency may be nil, in which case
// Idempotency-Key headers are ignored.
func NewBookService(repo ports.BookRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, idempotency: idempotency, logger: logger}
}

// ListBooks resolves paging defaults, then counts and fetches one page.
func (s *BookService) ListBooks(ctx context.Context, input ports.ListBooksInput) (*ports.ListBooksResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	size := input.Size
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	total, err := s.repo.Count(ctx, input.Filter)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, ports.ListBooksQuery{
		Skip:      int64(page-1) * int64(size),
		Limit:     int64(size),
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Filter:    input.Filter,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListBooksResult{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
		Pages: pageCount(total, size),
	}, nil
}

func pageCount(total int64, size int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateBook inserts a book. A known idempotency key replays the book it
// created before. Store failures are logged and reported as Success=false.
func (s *BookService) CreateBook(ctx context.Context, input ports.CreateBookInput) ports.BookMutationResult {
	if existing := s.replay(ctx, input.IdempotencyKey); existing != nil {
		metrics.BookMutationsTotal.WithLabelValues("create", metrics.ResultReplayed).Inc()
		return ports.BookMutationResult{Success: true, Book: existing}
	}

	book, err := s.repo.Create(ctx, input.Data)
	if err != nil {
		s.logger.Error().Err(err).Str("title", input.Data.Title).Msg("failed to create book")
		metrics.BookMutationsTotal.WithLabelValues("create", metrics.ResultError).Inc()
		return ports.BookMutationResult{Success: false}
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, input.IdempotencyKey, book.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Str("book_id", book.ID).Str("title", book.Title).Msg("book created")
	metrics.BookMutationsTotal.WithLabelValues("create", metrics.ResultSuccess).Inc()
	return ports.BookMutationResult{Success: true, Book: book}
}

// replay returns the book previously created under key, or nil. Lookup
// failures fall through to a normal create.
func (s *BookService) replay(ctx context.Context, key string) *domain.Book {
	if key == "" || s.idempotency == nil {
		return nil
	}

	id, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		metrics.IdempotencyLookupsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil
	}
	if !found {
		metrics.IdempotencyLookupsTotal.WithLabelValues(metrics.ResultMiss).Inc()
		return nil
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// The book was deleted since; the key no longer pins anything.
		s.logger.Info().Err(err).Str("idempotency_key", key).Str("book_id", id).Msg("idempotent book gone")
		metrics.IdempotencyLookupsTotal.WithLabelValues(metrics.ResultMiss).Inc()
		return nil
	}

	s.logger.Info().Str("idempotency_key", key).Str("book_id", id).Msg("idempotent replay")
	metrics.IdempotencyLookupsTotal.WithLabelValues(metrics.ResultHit).Inc()
	return book
}

func (s *BookService) ReplaceBook(ctx context.Context, id string, data domain.BookData) (*ports.BookMutationResult, error) {
	book, err := s.repo.Replace(ctx, id, data)
	if err != nil {
		s.countFailure("replace", err)
		return nil, err
	}
	s.logger.Info().Str("book_id", id).Msg("book replaced")
	metrics.BookMutationsTotal.WithLabelValues("replace", metrics.ResultSuccess).Inc()
	return &ports.BookMutationResult{Success: true, Book: book}, nil
}

func (s *BookService) PatchBook(ctx context.Context, id string, patch domain.BookPatch) (*ports.BookMutationResult, error) {
	book, err := s.repo.Patch(ctx, id, patch)
	if err != nil {
		s.countFailure("patch", err)
		return nil, err
	}
	s.logger.Info().Str("book_id", id).Msg("book patched")
	metrics.BookMutationsTotal.WithLabelValues("patch", metrics.ResultSuccess).Inc()
	return &ports.BookMutationResult{Success: true, Book: book}, nil
}

// DeleteBook reports whether a book was removed; a missing book is not an error.
func (s *BookService) DeleteBook(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.countFailure("delete", err)
		return false, err
	}
	if !deleted {
		metrics.BookMutationsTotal.WithLabelValues("delete", metrics.ResultNotFound).Inc()
		return false, nil
	}
	s.logger.Info().Str("book_id", id).Msg("book deleted")
	metrics.BookMutationsTotal.WithLabelValues("delete", metrics.ResultSuccess).Inc()
	return true, nil
}

func (s *BookService) AveragePriceByYear(ctx context.Context, year *int) ([]domain.YearPriceStat, error) {
	return s.repo.AveragePriceByYear(ctx, year)
}

func (s *BookService) countFailure(operation string, err error) {
	result := metrics.ResultError
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		result = metrics.ResultNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		result = metrics.ResultRejected
	default:
		s.logger.Error().Err(err).Str("operation", operation).Msg("book mutation failed")
	}
	metrics.BookMutationsTotal.WithLabelValues(operation, result).Inc()
}

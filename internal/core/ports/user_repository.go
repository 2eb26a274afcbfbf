package ports

import (
	"context"

	"github.com/bookshelf/books-api/internal/core/domain"
)

// UserRepository defines lookups over stored users. Every call hits the store.
type UserRepository interface {
	// GetByEmail matches the email exactly; no case folding is applied.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

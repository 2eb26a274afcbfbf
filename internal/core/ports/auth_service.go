package ports

import (
	"context"
	"time"

	"github.com/bookshelf/books-api/internal/core/domain"
)

// TokenTypeBearer is the only token type issued by the service.
const TokenTypeBearer = "bearer"

// TokenClaims are the custom claims embedded next to sub and exp.
type TokenClaims struct {
	Roles       []string
	Permissions []string
}

// TokenIssuer mints signed access tokens. A ttl <= 0 selects the configured default.
type TokenIssuer interface {
	CreateAccessToken(subject string, claims TokenClaims, ttl time.Duration) (string, error)
}

// TokenVerifier validates access tokens. Every failure is reported as
// domain.ErrInvalidToken.
type TokenVerifier interface {
	DecodeAndVerify(token string) (*domain.Principal, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

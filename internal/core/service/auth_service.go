package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bookshelf/books-api/internal/pkg/metrics"
	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

// AuthService implements login. Token lifetime is owned by the issuer.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger zerolog.Logger

	// decoyOnce guards decoyHash, a hash at the hasher's cost that unknown
	// emails are checked against so they take as long as a wrong password.
	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// Login checks the credentials and issues an access token whose subject is the
// user id and whose claims are the user's role names and flattened permissions.
// Unknown email, inactive user and wrong password all yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.decoy())
		s.logger.Info().Str("email", email).Msg("login rejected: unknown email")
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: bad password")
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: inactive user")
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateAccessToken(user.ID, ports.TokenClaims{
		Roles:       user.RoleNames(),
		Permissions: user.Permissions(),
	}, 0)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{AccessToken: token, TokenType: ports.TokenTypeBearer}, nil
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("books-api/decoy")
		if err != nil {
			s.logger.Warn().Err(err).Msg("could not build decoy password hash")
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

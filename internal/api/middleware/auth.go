package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the decoded principal for downstream handlers. A missing header, a
// wrong scheme and a bad token all fail with domain.ErrUnauthenticated.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return domain.ErrUnauthenticated
			}

			principal, err := verifier.DecodeAndVerify(token)
			if err != nil {
				return domain.ErrUnauthenticated
			}

			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/books-api/internal/pkg/metrics"
	"github.com/bookshelf/books-api/internal/core/domain"
)

// GuardConfig configures Guard.
type GuardConfig struct {
	// RequiredPermission must be present in the principal's permissions. Required.
	RequiredPermission string
}

// Guard lets a request through only when the authenticated principal holds the
// configured permission. It must run after Authenticate; without a principal
// the request fails with domain.ErrUnauthenticated, and with one that lacks
// the permission it fails with domain.ErrForbidden.
func Guard(config GuardConfig) echo.MiddlewareFunc {
	if config.RequiredPermission == "" {
		panic("echo: guard middleware requires a permission")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			if principal == nil {
				return domain.ErrUnauthenticated
			}
			if !principal.HasPermission(config.RequiredPermission) {
				metrics.AuthorizationDenialsTotal.WithLabelValues(config.RequiredPermission).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/books-api/internal/core/domain"
)

const principalKey = "principal"

// SetPrincipal stores the authenticated identity on the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the identity stored by Authenticate, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
	"github.com/bookshelf/books-api/internal/infrastructure/security"
)

func newTokenManager(t *testing.T) *security.TokenManager {
	t.Helper()
	m, err := security.NewTokenManager("secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return m
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := newTokenManager(t)
	signed, err := tokens.CreateAccessToken("user-1", ports.TokenClaims{
		Roles:       []string{domain.RoleEditor},
		Permissions: []string{domain.PermBookRead},
	}, 0)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(tokens)(func(c echo.Context) error {
		called = true
		p := PrincipalFrom(c)
		if p == nil || p.Subject != "user-1" {
			t.Fatalf("principal not set: %+v", p)
		}
		if !p.HasPermission(domain.PermBookRead) {
			t.Fatalf("permissions not carried: %v", p.Permissions)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	tokens := newTokenManager(t)
	other, err := security.NewTokenManager("other-secret", 0)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	foreign, _ := other.CreateAccessToken("user-1", ports.TokenClaims{}, 0)

	testCases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Token abc"},
		{name: "scheme only", header: "Bearer"},
		{name: "empty token", header: "Bearer   "},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "foreign signature", header: "Bearer " + foreign},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Authenticate(tokens)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthenticate_SchemeIsCaseInsensitive(t *testing.T) {
	tokens := newTokenManager(t)
	signed, _ := tokens.CreateAccessToken("user-1", ports.TokenClaims{}, 0)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+signed)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Authenticate(tokens)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

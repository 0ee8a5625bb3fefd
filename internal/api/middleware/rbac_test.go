package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	c, rec := newContext("")
	WithPrincipal(c, domain.Principal{Email: "admin@stis.ac.id", Role: domain.RoleAdministrator})

	called := false
	handler := RBAC(domain.RoleAdministrator)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, _ := newContext("")
	WithPrincipal(c, domain.Principal{Email: "john@stis.ac.id", Role: domain.RoleStudent})

	err := RBAC(domain.RoleAdministrator)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_RequiresPrincipal(t *testing.T) {
	c, _ := newContext("")

	err := RBAC(domain.RoleStudent)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

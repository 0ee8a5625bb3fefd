package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/polstat/server-provisioning/internal/core/domain"
)

const principalKey = "principal"

// TokenValidator turns a bearer token into the caller's principal.
type TokenValidator interface {
	ValidateToken(token string) (domain.Principal, error)
}

// Auth validates the bearer token and injects the principal into the context.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrUnauthenticated
			}

			p, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok && p.Email != ""
}

// WithPrincipal stores p the way Auth does. Used by handler tests.
func WithPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

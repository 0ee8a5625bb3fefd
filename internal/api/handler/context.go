package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/polstat/server-provisioning/internal/api/middleware"
	"github.com/polstat/server-provisioning/internal/core/domain"
)

// principal returns the caller injected by the Auth middleware. Its absence
// means the route was registered without Auth.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

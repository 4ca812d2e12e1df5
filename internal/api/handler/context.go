package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plataforma/accounts-api/internal/api/middleware"
	"github.com/plataforma/accounts-api/internal/core/domain"
)

// ctxCaller extracts the caller identity injected by the Auth middleware.
// An empty identity means the middleware did not run; reject with 401
// before any service call.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	id, _ := c.Get(middleware.CallerIDKey).(string)
	role, _ := c.Get(middleware.CallerRoleKey).(string)
	if id == "" || role == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Caller{ID: id, Role: role}, nil
}

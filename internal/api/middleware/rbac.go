package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/plataforma/accounts-api/internal/api/metrics"
	"github.com/plataforma/accounts-api/internal/core/domain"
)

// RBAC rejects callers whose role is not in allowedRoles. It must run after
// Auth. The fine-grained self-or-admin decisions are made by the policy in
// the service layer; this gate only protects the admin-only routes.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CallerRoleKey).(string)
			if _, ok := allowed[role]; !ok {
				metrics.AuthzDeniedTotal.WithLabelValues(c.Path()).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plataforma/accounts-api/internal/api/metrics"
	"github.com/plataforma/accounts-api/internal/core/domain"
	"github.com/plataforma/accounts-api/internal/core/ports"
)

// Context keys for the verified caller identity.
const (
	CallerIDKey   = "caller_id"
	CallerRoleKey = "caller_role"
)

// Auth verifies the bearer token and injects the caller identity into the
// echo context. A missing token renders 401; an invalid or expired one
// renders 403 (mapping done by the central error handler).
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokensRejectedTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokensRejectedTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			caller, err := tokens.Verify(parts[1])
			if err != nil {
				reason := "invalid"
				if err == domain.ErrExpiredToken {
					reason = "expired"
				}
				metrics.TokensRejectedTotal.WithLabelValues(reason).Inc()
				return err
			}

			c.Set(CallerIDKey, caller.ID)
			c.Set(CallerRoleKey, caller.Role)

			return next(c)
		}
	}
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// Authorizer decides whether a principal may continue.
type Authorizer interface {
	Authorize(principal *domain.User) error
}

// RequireRoles enforces policy on the principal set by RequireAuth. It must be
// registered after RequireAuth.
func RequireRoles(policy Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.Authorize(Principal(c)); err != nil {
				return err
			}
			return next(c)
		}
	}
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

const principalKey = "principal"

// RequireAuth resolves the bearer token to a live principal and stores it in
// the echo context. The Authorization header wins over the session cookie.
func RequireAuth(guard ports.AccessGuard, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c, cookieName)
			if err != nil {
				return err
			}

			user, err := guard.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			SetPrincipal(c, user)
			return next(c)
		}
	}
}

// Principal returns the user stored by RequireAuth, or nil.
func Principal(c echo.Context) *domain.User {
	u, _ := c.Get(principalKey).(*domain.User)
	return u
}

func SetPrincipal(c echo.Context, u *domain.User) {
	c.Set(principalKey, u)
	c.Set("user_id", u.ID)
}

// extractToken returns "" when neither source carries a token. A header that
// is present but not a bearer credential is rejected outright.
func extractToken(c echo.Context, cookieName string) (string, error) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", domain.ErrInvalidToken
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie.Value, nil
	}
	return "", nil
}

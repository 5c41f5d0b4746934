package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/api/middleware"
	"github.com/beside-app/beside-api/internal/core/domain"
)

// currentUser returns the principal the auth middleware resolved. Its absence
// means the route was registered without the middleware, which is treated as
// an unauthenticated request rather than a crash.
func currentUser(c echo.Context) (*domain.User, error) {
	u := middleware.Principal(c)
	if u == nil {
		return nil, domain.ErrMissingToken
	}
	return u, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator. Both failures surface as domain validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ValidationError("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.ValidationError(err.Error())
	}
	return nil
}

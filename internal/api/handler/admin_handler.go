package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// AdminHandler serves the administrator-only user endpoints.
type AdminHandler struct {
	service ports.ProfileService
}

func NewAdminHandler(service ports.ProfileService) *AdminHandler {
	return &AdminHandler{service: service}
}

// GetUser handles GET /admin/users/:id.
//
// @Summary      Get any user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetStatus handles PATCH /admin/users/:id/status.
//
// @Summary      Suspend, deactivate or reactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      accountStatusRequest  true  "New status"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/users/{id}/status [patch]
func (h *AdminHandler) SetStatus(c echo.Context) error {
	var req accountStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.service.SetAccountStatus(c.Request().Context(), c.Param("id"), domain.AccountStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/core/ports"
)

type VerificationHandler struct {
	service ports.VerificationService
}

func NewVerificationHandler(service ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// Verify matches an identity claim against the registry.
//
// @Summary      Submit identity verification
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      verificationRequest  true  "Identity claim"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /verification [post]
func (h *VerificationHandler) Verify(c echo.Context) error {
	var req verificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.service.Verify(c.Request().Context(), toIdentityClaim(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

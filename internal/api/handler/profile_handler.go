package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// photoField is the multipart form field carrying the profile photo.
const photoField = "photo"

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me returns the authenticated principal.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	fresh, err := h.service.Me(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fresh)
}

// Update changes profile fields of the authenticated principal.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/me [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.UpdateProfile(c.Request().Context(), user.ID, toProfileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// SetAvailability toggles whether the principal is open to companion requests.
//
// @Summary      Set availability
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      availabilityRequest  true  "Availability flag"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Router       /users/me/availability [put]
func (h *ProfileHandler) SetAvailability(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.SetAvailability(c.Request().Context(), user.ID, *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// UploadPhoto replaces the profile photo.
//
// @Summary      Upload profile photo
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        photo  formData  file  true  "Image file (jpeg, png, gif or webp)"
// @Success      200    {object}  domain.User
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /users/me/photo [put]
func (h *ProfileHandler) UploadPhoto(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile(photoField)
	if err != nil {
		return domain.ValidationError(photoField + " file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return domain.ValidationError("cannot read " + photoField)
	}
	defer f.Close()

	updated, err := h.service.UploadPhoto(c.Request().Context(), user.ID, f, fh.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

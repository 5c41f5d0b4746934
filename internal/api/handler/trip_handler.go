package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// TripHandler handles HTTP requests for trips and trip requests.
type TripHandler struct {
	service ports.TripService
}

func NewTripHandler(service ports.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// Create handles POST /trips.
//
// @Summary      Create a trip
// @Tags         trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTripRequest  true  "Trip details"
// @Success      201   {object}  tripResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /trips [post]
func (h *TripHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req createTripRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	trip, err := h.service.CreateTrip(c.Request().Context(), toCreateTripInput(req, user.ID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTripResponse(trip))
}

// List handles GET /trips and returns the caller's trips.
//
// @Summary      List my trips
// @Tags         trips
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 20, max 100)"
// @Success      200    {object}  listTripsResponse
// @Failure      400    {object}  errorResponse
// @Router       /trips [get]
func (h *TripHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	res, err := h.service.ListTrips(c.Request().Context(), ports.ListTripsInput{
		OwnerID: user.ID,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListTripsResponse(res))
}

// Get handles GET /trips/:trip_id.
//
// @Summary      Get a trip
// @Tags         trips
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string  true  "Trip id (e.g. TRP-7A8B9C2D)"
// @Success      200      {object}  tripResponse
// @Failure      404      {object}  errorResponse
// @Router       /trips/{trip_id} [get]
func (h *TripHandler) Get(c echo.Context) error {
	trip, err := h.service.GetTrip(c.Request().Context(), c.Param("trip_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTripResponse(trip))
}

// RequestToJoin handles POST /trips/:trip_id/requests.
//
// @Summary      Ask to join a trip
// @Tags         trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string           true  "Trip id"
// @Param        body     body      joinTripRequest  false "Optional message to the owner"
// @Success      201      {object}  domain.TripRequest
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /trips/{trip_id}/requests [post]
func (h *TripHandler) RequestToJoin(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req joinTripRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	tr, err := h.service.RequestToJoin(c.Request().Context(), c.Param("trip_id"), user.ID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tr)
}

// Respond handles PATCH /trip-requests/:request_id.
//
// @Summary      Accept, decline or cancel a trip request
// @Tags         trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request_id  path      string          true  "Request id (e.g. TRQ-1A2B3C4D)"
// @Param        body        body      respondRequest  true  "Action"
// @Success      200         {object}  domain.TripRequest
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /trip-requests/{request_id} [patch]
func (h *TripHandler) Respond(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req respondRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tr, err := h.service.RespondToRequest(c.Request().Context(), c.Param("request_id"), user.ID, ports.TripRequestAction(req.Action))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tr)
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError(name + " must be an integer")
	}
	return v, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/api/metrics"
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type TripService struct {
	trips    ports.TripRepository
	requests ports.TripRequestRepository
	users    ports.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTripService(
	trips ports.TripRepository,
	requests ports.TripRequestRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *TripService {
	return &TripService{
		trips:    trips,
		requests: requests,
		users:    users,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTrip creates a new trip owned by input.OwnerID.
func (s *TripService) CreateTrip(ctx context.Context, input ports.CreateTripInput) (*domain.Trip, error) {
	now := s.now()
	if !input.DepartureAt.After(now) {
		return nil, domain.ValidationError("departure_at must be in the future")
	}
	if _, err := s.activeUser(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		TripID:      domain.NewTripID(),
		OwnerID:     input.OwnerID,
		Origin:      strings.TrimSpace(input.Origin),
		Destination: strings.TrimSpace(input.Destination),
		DepartureAt: input.DepartureAt.UTC(),
		Mode:        input.Mode,
		Seats:       input.Seats,
		Notes:       strings.TrimSpace(input.Notes),
		CreatedAt:   now,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		s.logger.Error().Err(err).Msg("failed to create trip")
		return nil, err
	}

	metrics.TripsCreatedTotal.WithLabelValues(string(trip.Mode)).Inc()
	s.logger.Info().Str("trip_id", trip.TripID).Str("owner", trip.OwnerID).Msg("trip created")
	return trip, nil
}

func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return s.trips.FindByTripID(ctx, tripID)
}

// ListTrips returns one page of the owner's trips, newest departure first.
func (s *TripService) ListTrips(ctx context.Context, input ports.ListTripsInput) (*ports.ListTripsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.trips.List(ctx, ports.ListTripsFilter{OwnerID: input.OwnerID, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListTripsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// RequestToJoin creates a pending request. Both the requester and the trip
// owner must still exist; the checks are plain reads, not a transaction.
func (s *TripService) RequestToJoin(ctx context.Context, tripID, requesterID, message string) (*domain.TripRequest, error) {
	trip, err := s.trips.FindByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID == requesterID {
		return nil, domain.ErrOwnTrip
	}
	if _, err := s.activeUser(ctx, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, trip.OwnerID); err != nil {
		return nil, err
	}

	now := s.now()
	req := &domain.TripRequest{
		RequestID:   domain.NewTripRequestID(),
		TripID:      trip.TripID,
		OwnerID:     trip.OwnerID,
		RequesterID: requesterID,
		Message:     strings.TrimSpace(message),
		Status:      domain.RequestPending,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Str("request_id", req.RequestID).Str("trip_id", trip.TripID).Str("requester", requesterID).Msg("trip request created")
	return req, nil
}

// RespondToRequest applies an action. The trip owner accepts or declines; the
// requester cancels.
func (s *TripService) RespondToRequest(ctx context.Context, requestID, actorID string, action ports.TripRequestAction) (*domain.TripRequest, error) {
	req, err := s.requests.FindByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var next domain.TripRequestStatus
	switch action {
	case ports.ActionAccept, ports.ActionDecline:
		if actorID != req.OwnerID {
			return nil, domain.ErrForbidden
		}
		next = domain.RequestAccepted
		if action == ports.ActionDecline {
			next = domain.RequestDeclined
		}
	case ports.ActionCancel:
		if actorID != req.RequesterID {
			return nil, domain.ErrForbidden
		}
		next = domain.RequestCancelled
	default:
		return nil, domain.ValidationError("action must be one of: accept decline cancel")
	}

	if !req.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.requests.UpdateStatus(ctx, requestID, req.Status, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("request_id", requestID).
		Str("from", string(req.Status)).
		Str("to", string(next)).
		Msg("trip request updated")
	return updated, nil
}

func (s *TripService) activeUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if !u.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	return u, nil
}

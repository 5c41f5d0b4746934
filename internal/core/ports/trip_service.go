package ports

import (
	"context"
	"time"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// CreateTripInput carries all data needed to create a new trip.
type CreateTripInput struct {
	OwnerID     string
	Origin      string
	Destination string
	DepartureAt time.Time
	Mode        domain.TravelMode
	Seats       int
	Notes       string
}

// ListTripsInput carries the parameters for the list endpoint.
type ListTripsInput struct {
	OwnerID string
	Page    int
	Limit   int
}

// ListTripsResult is returned by ListTrips.
type ListTripsResult struct {
	Items      []*domain.Trip
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TripRequestAction is what an actor does to a pending or accepted request.
type TripRequestAction string

const (
	ActionAccept  TripRequestAction = "accept"
	ActionDecline TripRequestAction = "decline"
	ActionCancel  TripRequestAction = "cancel"
)

// TripService defines use-case operations for trips.
type TripService interface {
	CreateTrip(ctx context.Context, in CreateTripInput) (*domain.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	ListTrips(ctx context.Context, in ListTripsInput) (*ListTripsResult, error)
	RequestToJoin(ctx context.Context, tripID, requesterID, message string) (*domain.TripRequest, error)
	RespondToRequest(ctx context.Context, requestID, actorID string, action TripRequestAction) (*domain.TripRequest, error)
}

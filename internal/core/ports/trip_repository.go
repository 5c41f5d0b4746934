package ports

import (
	"context"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// ListTripsFilter carries the query parameters for listing trips.
type ListTripsFilter struct {
	OwnerID string
	Page    int // 1-based
	Limit   int // capped at 100 by the service
}

// TripRepository defines persistence operations for trips.
type TripRepository interface {
	Create(ctx context.Context, t *domain.Trip) error
	// FindByTripID returns domain.ErrTripNotFound when nothing matches.
	FindByTripID(ctx context.Context, tripID string) (*domain.Trip, error)
	// List returns a page of trips matching filter and the total count.
	List(ctx context.Context, filter ListTripsFilter) ([]*domain.Trip, int64, error)
}

// TripRequestRepository defines persistence operations for trip requests.
type TripRequestRepository interface {
	// Create returns domain.ErrDuplicateRequest when the requester already has
	// a request on the trip.
	Create(ctx context.Context, r *domain.TripRequest) error
	FindByRequestID(ctx context.Context, requestID string) (*domain.TripRequest, error)
	// UpdateStatus moves the request from one status to another. It fails with
	// domain.ErrInvalidTransition if the stored status is no longer from.
	UpdateStatus(ctx context.Context, requestID string, from, to domain.TripRequestStatus) (*domain.TripRequest, error)
}

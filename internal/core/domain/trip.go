package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

// TripRequestStatus represents the lifecycle state of a request to join a trip.
type TripRequestStatus string

const (
	RequestPending   TripRequestStatus = "pending"
	RequestAccepted  TripRequestStatus = "accepted"
	RequestDeclined  TripRequestStatus = "declined"
	RequestCancelled TripRequestStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[TripRequestStatus][]TripRequestStatus{
	RequestPending:  {RequestAccepted, RequestDeclined, RequestCancelled},
	RequestAccepted: {RequestCancelled},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TripRequestStatus) CanTransitionTo(next TripRequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TravelMode is how the trip is made.
type TravelMode string

const (
	ModeWalk    TravelMode = "walk"
	ModeCar     TravelMode = "car"
	ModeTransit TravelMode = "transit"
	ModeFlight  TravelMode = "flight"
)

// Trip is a journey a user offers to share with a companion.
type Trip struct {
	ID          string     `json:"-"`
	TripID      string     `json:"trip_id"`
	OwnerID     string     `json:"owner_id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	DepartureAt time.Time  `json:"departure_at"`
	Mode        TravelMode `json:"mode"`
	Seats       int        `json:"seats"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TripRequest is a user's request to accompany the owner of a trip.
type TripRequest struct {
	ID          string            `json:"-"`
	RequestID   string            `json:"request_id"`
	TripID      string            `json:"trip_id"`
	OwnerID     string            `json:"owner_id"`
	RequesterID string            `json:"requester_id"`
	Message     string            `json:"message,omitempty"`
	Status      TripRequestStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	LastUpdated time.Time         `json:"last_updated"`
}

// NewTripID returns an id in the format TRP-XXXXXXXX.
func NewTripID() string {
	return prefixedID("TRP")
}

// NewTripRequestID returns an id in the format TRQ-XXXXXXXX.
func NewTripRequestID() string {
	return prefixedID("TRQ")
}

func prefixedID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%s-%08X", prefix, time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s-%08X", prefix, b)
}

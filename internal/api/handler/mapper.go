package handler

import (
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
}

func toProfileInput(req updateProfileRequest) ports.ProfileInput {
	in := ports.ProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
	}
	if a := req.Address; a != nil {
		in.Address = &domain.Address{
			Street:      a.Street,
			City:        a.City,
			State:       a.State,
			PostalCode:  a.PostalCode,
			Country:     a.Country,
			CountryCode: a.CountryCode,
		}
	}
	return in
}

func toIdentityClaim(req verificationRequest) domain.IdentityClaim {
	return domain.IdentityClaim{
		Username:       req.Username,
		DocumentType:   domain.DocumentType(req.DocumentType),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DOB:            req.DOB,
		DocumentNumber: req.DocumentNumber,
		DocumentExpiry: req.DocumentExpiry,
	}
}

func toCreateTripInput(req createTripRequest, ownerID string) ports.CreateTripInput {
	return ports.CreateTripInput{
		OwnerID:     ownerID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: req.DepartureAt,
		Mode:        domain.TravelMode(req.Mode),
		Seats:       req.Seats,
		Notes:       req.Notes,
	}
}

// --- Service output → Response ---

func toSessionResponse(s *ports.Session) sessionResponse {
	return sessionResponse{User: s.User, Token: s.Token, ExpiresAt: s.ExpiresAt.UTC()}
}

func toTripResponse(t *domain.Trip) tripResponse {
	return tripResponse{
		Trip: t,
		Links: tripLinks{
			Self:     "/api/v1/trips/" + t.TripID,
			Requests: "/api/v1/trips/" + t.TripID + "/requests",
		},
	}
}

func toListTripsResponse(r *ports.ListTripsResult) listTripsResponse {
	items := make([]tripResponse, 0, len(r.Items))
	for _, t := range r.Items {
		items = append(items, toTripResponse(t))
	}
	return listTripsResponse{
		Items:      items,
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}

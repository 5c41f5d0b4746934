package handler

import (
	"time"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username     string `json:"username"      validate:"required,min=3,max=32"`
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required,min=8,max=72"`
	MobileNumber string `json:"mobile_number" validate:"required,phone"`
	FirstName    string `json:"first_name"    validate:"omitempty,max=64"`
	LastName     string `json:"last_name"     validate:"omitempty,max=64"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	OTP         string `json:"otp"          validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

// --- Profile ---

type addressRequest struct {
	Street      string `json:"street"       validate:"omitempty,max=128"`
	City        string `json:"city"         validate:"omitempty,max=64"`
	State       string `json:"state"        validate:"omitempty,max=64"`
	PostalCode  string `json:"postal_code"  validate:"omitempty,max=16"`
	Country     string `json:"country"      validate:"required,max=64"`
	CountryCode string `json:"country_code" validate:"required,min=2,max=3"`
}

type updateProfileRequest struct {
	FirstName    *string         `json:"first_name"    validate:"omitempty,max=64"`
	LastName     *string         `json:"last_name"     validate:"omitempty,max=64"`
	MobileNumber *string         `json:"mobile_number" validate:"omitempty,phone"`
	Address      *addressRequest `json:"address"       validate:"omitempty"`
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// --- Verification ---

type verificationRequest struct {
	Username       string `json:"username"        validate:"required"`
	DocumentType   string `json:"document_type"   validate:"required,oneof=wwcc license"`
	FirstName      string `json:"first_name"      validate:"required"`
	LastName       string `json:"last_name"       validate:"required"`
	DOB            string `json:"dob"             validate:"required,datetime=2006-01-02"`
	DocumentNumber string `json:"document_number" validate:"required"`
	DocumentExpiry string `json:"document_expiry" validate:"required,datetime=2006-01-02"`
}

// --- Admin ---

type accountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended deactivated"`
}

// --- Trips ---

type createTripRequest struct {
	Origin      string    `json:"origin"       validate:"required,max=128"`
	Destination string    `json:"destination"  validate:"required,max=128"`
	DepartureAt time.Time `json:"departure_at" validate:"required"`
	Mode        string    `json:"mode"         validate:"required,oneof=walk car transit flight"`
	Seats       int       `json:"seats"        validate:"required,gt=0"`
	Notes       string    `json:"notes"        validate:"omitempty,max=500"`
}

type joinTripRequest struct {
	Message string `json:"message" validate:"omitempty,max=500"`
}

type respondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline cancel"`
}

type tripLinks struct {
	Self     string `json:"self"`
	Requests string `json:"requests"`
}

type tripResponse struct {
	*domain.Trip
	Links tripLinks `json:"_links"`
}

type listTripsResponse struct {
	Items      []tripResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

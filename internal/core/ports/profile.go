package ports

import (
	"context"
	"io"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// MediaStore is the media host used for profile photos.
type MediaStore interface {
	// Upload stores an image owned by ownerID. It rejects non-image content
	// and anything above the configured size ceiling.
	Upload(ctx context.Context, ownerID string, r io.Reader, size int64) (*domain.MediaRef, error)
	Delete(ctx context.Context, refID string) error
}

// ProfileInput holds the optional profile fields a user may change.
type ProfileInput struct {
	FirstName    *string
	LastName     *string
	MobileNumber *string
	Address      *domain.Address
}

type ProfileService interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error)
	SetAvailability(ctx context.Context, userID string, available bool) (*domain.User, error)
	UploadPhoto(ctx context.Context, userID string, r io.Reader, size int64) (*domain.User, error)

	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.User, error)
}

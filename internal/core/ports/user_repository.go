package ports

import (
	"context"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// UserPatch lists the fields UpdateFields may change. Nil fields are left as is.
type UserPatch struct {
	FirstName     *string
	LastName      *string
	MobileNumber  *string
	Address       *domain.Address
	ProfilePhoto  *domain.MediaRef
	PasswordHash  *string
	IsVerified    *bool
	AccountStatus *domain.AccountStatus
	Availability  *bool
	// UserID is written only when the stored principal has none yet.
	UserID *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p == UserPatch{}
}

// UserRepository is the credential store.
//
// Find* methods return (nil, nil) when nothing matches; translating absence into
// a 404 is the caller's decision.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user and fills in its ID. A username or email that is
	// already taken yields domain.ErrDuplicateIdentity.
	Create(ctx context.Context, user *domain.User) error
	// UpdateFields applies the patch, refreshes last_updated and returns the
	// stored user. An unknown id yields domain.ErrUserNotFound.
	UpdateFields(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
}

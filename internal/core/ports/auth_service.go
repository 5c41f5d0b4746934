package ports

import (
	"context"
	"time"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// RegisterInput carries the data needed to create a principal.
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	MobileNumber string
	FirstName    string
	LastName     string
}

// Session is the result of a successful registration or login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// AccessGuard resolves bearer tokens to live principals.
type AccessGuard interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

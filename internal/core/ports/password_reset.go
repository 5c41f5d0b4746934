package ports

import (
	"context"
	"time"
)

// OTPStore keeps short-lived one-time codes keyed by principal id.
type OTPStore interface {
	Save(ctx context.Context, userID, code string, ttl time.Duration) error
	// Get returns "" when no live code exists.
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
	// IncrAttempts counts a failed attempt and returns the running total.
	IncrAttempts(ctx context.Context, userID string, ttl time.Duration) (int64, error)
}

// MailMessage is a single outbound e-mail.
type MailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers e-mail. Delivery is best-effort.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailQueue accepts messages for asynchronous delivery.
type MailQueue interface {
	Enqueue(msg MailMessage)
}

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	Reset(ctx context.Context, email, code, newPassword string) error
}

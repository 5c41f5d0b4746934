package ports

import (
	"context"
	"time"
)

// PasswordHasher turns plaintext secrets into self-describing salted hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	// Verify never fails on mismatch; it just returns false.
	Verify(ctx context.Context, plaintext, storedHash string) bool
	// Dummy burns roughly the cost of one Verify. Used when no user matched so
	// that response timing does not reveal which usernames exist.
	Dummy(ctx context.Context)
}

// TokenIssuer mints signed, time-bounded bearer tokens.
type TokenIssuer interface {
	Issue(principalID string, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks a bearer token's signature and expiry and returns the
// principal id it carries.
type TokenVerifier interface {
	Verify(token string) (principalID string, err error)
}

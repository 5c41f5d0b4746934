// Package security provides the password hasher and the bearer-token codec.
package security

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/beside-app/beside-api/internal/api/metrics"
	"github.com/beside-app/beside-api/internal/core/domain"
)

const DefaultBcryptCost = 12

// BcryptHasher hashes passwords with bcrypt. At most slots hashes run at the
// same time; the rest wait, so a burst of logins cannot pin every CPU.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
	dummy []byte
}

// NewBcryptHasher returns a hasher using cost (clamped to bcrypt's range) and
// allowing up to slots concurrent hash operations.
func NewBcryptHasher(cost, slots int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	if slots <= 0 {
		slots = runtime.NumCPU()
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("beside-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	return &BcryptHasher{
		cost:  cost,
		slots: semaphore.NewWeighted(int64(slots)),
		dummy: dummy,
	}, nil
}

// Hash returns a salted bcrypt hash of plaintext. Two calls with the same input
// return different strings.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > domain.MaxPasswordLength {
		return "", domain.ErrWeakPassword
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	defer h.slots.Release(1)

	start := time.Now()
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrHashing, err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches storedHash. Malformed hashes and a
// cancelled context both count as a mismatch.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, storedHash string) bool {
	if storedHash == "" {
		h.Dummy(ctx)
		return false
	}
	return h.compare(ctx, []byte(storedHash), plaintext)
}

// Dummy performs a comparison against a fixed hash so callers can spend the
// same time on an unknown principal as on a real one.
func (h *BcryptHasher) Dummy(ctx context.Context) {
	h.compare(ctx, h.dummy, "not-the-password")
}

func (h *BcryptHasher) compare(ctx context.Context, hash []byte, plaintext string) bool {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.slots.Release(1)

	start := time.Now()
	err := bcrypt.CompareHashAndPassword(hash, []byte(plaintext))
	metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return err == nil
}

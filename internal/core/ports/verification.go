package ports

import (
	"context"

	"github.com/beside-app/beside-api/internal/core/domain"
)

// VerificationRegistry is the read-only external registry of identity records.
type VerificationRegistry interface {
	// FindMatch returns the record matching every field of the claim, or
	// (nil, nil) when there is none.
	FindMatch(ctx context.Context, claim domain.IdentityClaim) (*domain.VerificationRecord, error)
}

type VerificationService interface {
	Verify(ctx context.Context, claim domain.IdentityClaim) (*domain.User, error)
}

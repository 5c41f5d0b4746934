package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/api/metrics"
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// VerificationService flips a principal to verified when its identity claim
// matches a registry record.
type VerificationService struct {
	users    ports.UserRepository
	registry ports.VerificationRegistry
	log      zerolog.Logger
}

func NewVerificationService(users ports.UserRepository, registry ports.VerificationRegistry, log zerolog.Logger) *VerificationService {
	return &VerificationService{users: users, registry: registry, log: log}
}

// Verify is idempotent: an already verified principal is returned unchanged
// without consulting the registry.
func (s *VerificationService) Verify(ctx context.Context, claim domain.IdentityClaim) (*domain.User, error) {
	claim = trimClaim(claim)

	user, err := s.users.FindByUsername(ctx, claim.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.IsVerified {
		metrics.VerificationsTotal.WithLabelValues("already_verified").Inc()
		return user, nil
	}
	if !claim.Complete() {
		return nil, domain.ValidationError("claim must include names, dob, document number and expiry")
	}

	record, err := s.registry.FindMatch(ctx, claim)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		return nil, domain.DependencyError("verification registry", err)
	}
	if record == nil || !record.Matches(claim) {
		metrics.VerificationsTotal.WithLabelValues("no_match").Inc()
		s.log.Info().Str("user", user.ID).Str("document", string(claim.DocumentType)).Msg("identity verification failed")
		return nil, domain.ErrVerificationFailed
	}

	verified := true
	updated, err := s.users.UpdateFields(ctx, user.ID, ports.UserPatch{IsVerified: &verified})
	if err != nil {
		return nil, err
	}

	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	s.log.Info().Str("user", user.ID).Str("document", string(claim.DocumentType)).Msg("identity verified")
	return updated, nil
}

func trimClaim(c domain.IdentityClaim) domain.IdentityClaim {
	c.Username = strings.TrimSpace(c.Username)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.DOB = strings.TrimSpace(c.DOB)
	c.DocumentNumber = strings.TrimSpace(c.DocumentNumber)
	c.DocumentExpiry = strings.TrimSpace(c.DocumentExpiry)
	c.DocumentType = domain.DocumentType(strings.ToLower(strings.TrimSpace(string(c.DocumentType))))
	return c
}

package service

import (
	"context"
	"errors"

	"github.com/beside-app/beside-api/internal/api/metrics"
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// AccessGuard resolves a bearer token to the live principal it names.
//
// The principal is re-read from the store on every call: a deleted or
// deactivated account stops working immediately even though its token is still
// cryptographically valid.
type AccessGuard struct {
	verifier ports.TokenVerifier
	repo     ports.UserRepository
}

func NewAccessGuard(verifier ports.TokenVerifier, repo ports.UserRepository) *AccessGuard {
	return &AccessGuard{verifier: verifier, repo: repo}
}

func (g *AccessGuard) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
		return nil, domain.ErrMissingToken
	}

	principalID, err := g.verifier.Verify(token)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, domain.ErrExpiredToken) {
			reason = "expired"
		}
		metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
		return nil, err
	}

	user, err := g.repo.FindByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.TokenRejectionsTotal.WithLabelValues("principal_not_found").Inc()
		return nil, domain.ErrPrincipalNotFound
	}
	if !user.IsActive() {
		metrics.TokenRejectionsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAccountInactive
	}
	return user, nil
}

// Policy grants access to principals holding one of a fixed set of roles.
type Policy struct {
	roles map[string]struct{}
}

// NewPolicy returns a policy allowing the given roles.
func NewPolicy(roles ...string) Policy {
	p := Policy{roles: make(map[string]struct{}, len(roles))}
	for _, r := range roles {
		p.roles[r] = struct{}{}
	}
	return p
}

// Authorize fails with domain.ErrForbidden unless the principal's role is allowed.
func (p Policy) Authorize(principal *domain.User) error {
	if principal == nil {
		return domain.ErrForbidden
	}
	if _, ok := p.roles[principal.Role]; !ok {
		return domain.ErrForbidden
	}
	return nil
}

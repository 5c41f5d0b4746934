package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/api/metrics"
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// AuthService implements registration, login and password changes.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	issuer   ports.TokenIssuer
	tokenTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
	admins   map[string]struct{}
}

// NewAuthService builds the service. Accounts registered under one of the
// admins usernames get domain.RoleAdmin; everyone else gets domain.RoleUser.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	tokenTTL time.Duration,
	log zerolog.Logger,
	admins ...string,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	adminSet := make(map[string]struct{}, len(admins))
	for _, name := range admins {
		if name = strings.TrimSpace(name); name != "" {
			adminSet[name] = struct{}{}
		}
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		tokenTTL: tokenTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		admins:   adminSet,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	username := strings.TrimSpace(in.Username)
	email := domain.NormalizeEmail(in.Email)
	if username == "" || email == "" {
		return nil, domain.ValidationError("username and email are required")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		MobileNumber:  strings.TrimSpace(in.MobileNumber),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Role:          domain.RoleUser,
		AccountStatus: domain.AccountActive,
	}
	if _, ok := s.admins[username]; ok {
		user.Role = domain.RoleAdmin
	}
	user.Touch(s.now())

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("user", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("user registered")

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Spend the same time as a real comparison so the response does not
		// tell unknown usernames apart from wrong passwords.
		s.hasher.Dummy(ctx)
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAccountInactive
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.session(user)
}

// ChangePassword replaces the hash after checking the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := checkPassword(next); err != nil {
		return err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !s.hasher.Verify(ctx, current, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, next)
	if err != nil {
		return err
	}
	if _, err := s.repo.UpdateFields(ctx, userID, ports.UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}
	s.log.Info().Str("user", userID).Msg("password changed")
	return nil
}

func (s *AuthService) session(user *domain.User) (*ports.Session, error) {
	token, exp, err := s.issuer.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &ports.Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func checkPassword(p string) error {
	if len(p) < domain.MinPasswordLength || len(p) > domain.MaxPasswordLength {
		return domain.ErrWeakPassword
	}
	return nil
}

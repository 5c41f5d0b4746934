package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// ProfileService manages the non-credential parts of a principal.
type ProfileService struct {
	users ports.UserRepository
	media ports.MediaStore
	log   zerolog.Logger
}

func NewProfileService(users ports.UserRepository, media ports.MediaStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, media: media, log: log}
}

func (s *ProfileService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.GetUser(ctx, userID)
}

func (s *ProfileService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the given fields. The derived user id is generated the
// first time the address carries a country code, state and postal code; after
// that it never changes.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileInput) (*domain.User, error) {
	current, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch := ports.UserPatch{
		FirstName:    trimmed(in.FirstName),
		LastName:     trimmed(in.LastName),
		MobileNumber: trimmed(in.MobileNumber),
	}
	if in.Address != nil {
		addr := *in.Address
		addr.CountryCode = strings.ToUpper(strings.TrimSpace(addr.CountryCode))
		patch.Address = &addr

		if current.UserID == "" {
			if id := domain.GenerateUserID(addr); id != "" {
				patch.UserID = &id
			}
		}
	}
	if patch.Empty() {
		return current, nil
	}

	return s.users.UpdateFields(ctx, userID, patch)
}

func (s *ProfileService) SetAvailability(ctx context.Context, userID string, available bool) (*domain.User, error) {
	return s.users.UpdateFields(ctx, userID, ports.UserPatch{Availability: &available})
}

// UploadPhoto stores the new photo, points the profile at it and then removes
// the previous object. Removal failures are logged and otherwise ignored.
func (s *ProfileService) UploadPhoto(ctx context.Context, userID string, r io.Reader, size int64) (*domain.User, error) {
	current, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.media.Upload(ctx, userID, r, size)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateFields(ctx, userID, ports.UserPatch{ProfilePhoto: ref})
	if err != nil {
		s.discard(ctx, userID, ref.RefID)
		return nil, err
	}

	if old := current.ProfilePhoto; old != nil && old.RefID != "" && old.RefID != ref.RefID {
		s.discard(ctx, userID, old.RefID)
	}
	return updated, nil
}

func (s *ProfileService) discard(ctx context.Context, userID, refID string) {
	if err := s.media.Delete(ctx, refID); err != nil {
		s.log.Warn().Err(err).Str("user", userID).Str("ref", refID).Msg("failed to delete media object")
	}
}

func (s *ProfileService) SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, domain.ValidationError("account_status must be one of: active suspended deactivated")
	}
	user, err := s.users.UpdateFields(ctx, id, ports.UserPatch{AccountStatus: &status})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user", id).Str("status", string(status)).Msg("account status changed")
	return user, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"html/template"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

const (
	otpDigits         = 6
	defaultOTPTTL     = 10 * time.Minute
	maxResetAttempts  = 5
	resetEmailSubject = "Your BeSide password reset code"
)

var resetEmail = template.Must(template.New("reset").Parse(
	`<p>Hi {{.Username}},</p>
<p>Your password reset code is <strong>{{.Code}}</strong>. It expires in {{.Minutes}} minutes.</p>
<p>If you did not ask for this, you can ignore this e-mail.</p>`))

// PasswordResetService implements the one-time-code reset flow.
type PasswordResetService struct {
	users  ports.UserRepository
	otps   ports.OTPStore
	hasher ports.PasswordHasher
	mail   ports.MailQueue
	ttl    time.Duration
	log    zerolog.Logger
}

func NewPasswordResetService(
	users ports.UserRepository,
	otps ports.OTPStore,
	hasher ports.PasswordHasher,
	mail ports.MailQueue,
	ttl time.Duration,
	log zerolog.Logger,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return &PasswordResetService{users: users, otps: otps, hasher: hasher, mail: mail, ttl: ttl, log: log}
}

// RequestReset issues a code for a known e-mail. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive() {
		s.log.Debug().Str("email", email).Msg("reset requested for unknown or inactive account")
		return nil
	}

	code, err := newOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otps.Save(ctx, user.ID, code, s.ttl); err != nil {
		return domain.DependencyError("store otp", err)
	}

	var body bytes.Buffer
	if err := resetEmail.Execute(&body, map[string]any{
		"Username": user.Username,
		"Code":     code,
		"Minutes":  int(s.ttl.Minutes()),
	}); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	s.mail.Enqueue(ports.MailMessage{To: user.Email, Subject: resetEmailSubject, HTML: body.String()})

	s.log.Info().Str("user", user.ID).Msg("password reset code issued")
	return nil
}

// Reset replaces the password when code matches the live OTP. After
// maxResetAttempts wrong codes the OTP is discarded.
func (s *PasswordResetService) Reset(ctx context.Context, email, code, newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidOTP
	}

	stored, err := s.otps.Get(ctx, user.ID)
	if err != nil {
		return domain.DependencyError("load otp", err)
	}
	if stored == "" {
		return domain.ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		n, err := s.otps.IncrAttempts(ctx, user.ID, s.ttl)
		if err != nil {
			s.log.Warn().Err(err).Str("user", user.ID).Msg("failed to count reset attempt")
		}
		if n >= maxResetAttempts {
			if err := s.otps.Delete(ctx, user.ID); err != nil {
				s.log.Warn().Err(err).Str("user", user.ID).Msg("failed to discard otp")
			}
			s.log.Warn().Str("user", user.ID).Msg("reset code discarded after too many attempts")
		}
		return domain.ErrInvalidOTP
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.UpdateFields(ctx, user.ID, ports.UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}
	if err := s.otps.Delete(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user", user.ID).Msg("failed to delete used otp")
	}

	s.log.Info().Str("user", user.ID).Msg("password reset")
	return nil
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

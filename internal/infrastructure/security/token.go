package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/beside-app/beside-api/internal/core/domain"
)

const defaultIssuer = "beside-api"

// ErrEmptySecret is returned by NewTokenCodec when no signing secret is set.
var ErrEmptySecret = errors.New("token signing secret must not be empty")

// TokenCodec issues and verifies HS256-signed JWTs whose subject is the
// principal id.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// TokenOption customises a TokenCodec.
type TokenOption func(*TokenCodec)

// WithIssuer sets the iss claim written and required by the codec.
func WithIssuer(iss string) TokenOption {
	return func(c *TokenCodec) {
		if iss != "" {
			c.issuer = iss
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, opts ...TokenOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	c := &TokenCodec{
		secret: []byte(secret),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue returns a token naming principalID that expires ttl from now. A ttl of
// zero or less yields a token that is already expired.
func (c *TokenCodec) Issue(principalID string, ttl time.Duration) (string, time.Time, error) {
	if principalID == "" {
		return "", time.Time{}, errors.New("issue token: empty principal id")
	}
	now := c.now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   principalID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks the signature before anything else, so a forged token is
// reported as invalid even when it is also expired.
func (c *TokenCodec) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrMissingToken
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrExpiredToken
		}
		return "", domain.ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return c.secret, nil
}

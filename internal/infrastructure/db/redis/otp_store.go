package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps password-reset codes and their failed-attempt counters.
// Key format: reset:otp:<user_id> and reset:attempts:<user_id>
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// Save stores code for userID, replacing any live code and resetting the
// attempt counter.
func (s *OTPStore) Save(ctx context.Context, userID, code string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, otpKey(userID), code, ttl)
		p.Del(ctx, attemptsKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

// Get returns the live code, or "" when there is none.
func (s *OTPStore) Get(ctx context.Context, userID string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get otp: %w", err)
	}
	return code, nil
}

func (s *OTPStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, otpKey(userID), attemptsKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// IncrAttempts counts a failed attempt. The counter expires with the code.
func (s *OTPStore) IncrAttempts(ctx context.Context, userID string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, attemptsKey(userID))
		p.Expire(ctx, attemptsKey(userID), ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count otp attempt: %w", err)
	}
	return incr.Val(), nil
}

func otpKey(userID string) string      { return "reset:otp:" + userID }
func attemptsKey(userID string) string { return "reset:attempts:" + userID }

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound is returned for unknown or expired reset tokens.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenStore manages password reset tokens. Expiry is delegated to the
// store's TTL, so there is no used_at bookkeeping: a consumed token is
// deleted.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

const resetTokenPrefix = "pwreset:"

type resetTokenStore struct {
	client *redis.Client
}

// NewResetTokenStore returns a Redis-backed implementation.
func NewResetTokenStore(client *redis.Client) ResetTokenStore {
	return &resetTokenStore{client: client}
}

func (s *resetTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, resetTokenPrefix+token, userID, ttl).Err()
}

func (s *resetTokenStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, resetTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenNotFound
		}
		return "", err
	}
	return userID, nil
}

func (s *resetTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, resetTokenPrefix+token).Err()
}

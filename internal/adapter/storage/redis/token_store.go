package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// TokenStore implements ports.TokenStore as a single Redis string key, so
// several dashboard instances can share one sign-in.
type TokenStore struct {
	client goredis.Cmdable
	key    string
}

// NewTokenStore creates a token store for the named slot.
func NewTokenStore(client goredis.Cmdable, slot string) *TokenStore {
	return &TokenStore{
		client: client,
		key:    "session:" + slot,
	}
}

// Load returns the stored token, or "" if the key does not exist.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

// Save stores the token without expiry; the backend decides when it dies.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

// Ping checks the server holding the slot.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Name identifies the slot in health reports.
func (s *TokenStore) Name() string {
	return "redis"
}

// Remove deletes the key. A missing key is not an error.
func (s *TokenStore) Remove(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del token: %w", err)
	}
	return nil
}

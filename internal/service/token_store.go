package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned by a TokenStore for unknown or revoked token ids
var ErrTokenNotFound = errors.New("token not registered")

// TokenStore remembers issued token ids so they can be revoked before expiry
type TokenStore interface {
	Register(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (uint, error)
	Revoke(ctx context.Context, tokenID string) error
}

const tokenKeyPrefix = "auth:token:"

// RedisTokenStore keeps token ids in Redis with the token lifetime as TTL
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore creates a TokenStore backed by client
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func tokenKey(tokenID string) string {
	return tokenKeyPrefix + tokenID
}

func (s *RedisTokenStore) Register(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(tokenID), strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("register token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Lookup(ctx context.Context, tokenID string) (uint, error) {
	val, err := s.client.Get(ctx, tokenKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup token: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("lookup token: %w", err)
	}
	return uint(id), nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, tokenKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

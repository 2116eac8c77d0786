package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gateway:session:"

// RedisStore is a Redis-backed principal store. Sessions survive
// gateway restarts and are shared across replicas.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a principal store backed by an existing Redis
// client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: redisKeyPrefix,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Save implements Store
func (s *RedisStore) Save(ctx context.Context, principal *Principal, ttl time.Duration) error {
	payload, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("session: failed to encode principal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(principal.SessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set failed: %w", err)
	}
	return nil
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Principal, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: redis get failed: %w", err)
	}

	var principal Principal
	if err := json.Unmarshal(payload, &principal); err != nil {
		return nil, fmt.Errorf("session: failed to decode principal: %w", err)
	}
	return &principal, nil
}

// Delete implements Store
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: redis del failed: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

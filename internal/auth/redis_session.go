// Package auth - redis_session.go stores sessions in Redis so they survive
// restarts and are shared between replicas.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "orgdesk:session:"

// RedisSessionStore implements SessionStore with one key per session
// (orgdesk:session:<id> -> user id) expiring with the session.
type RedisSessionStore struct {
	client redis.UniversalClient
}

// NewRedisSessionStore wraps a Redis client
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func redisSessionKey(id string) string {
	return redisSessionPrefix + id
}

// Save implements SessionStore
func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	if err := s.client.Set(ctx, redisSessionKey(session.ID), session.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get implements SessionStore
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	key := redisSessionKey(id)
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", id, err)
	}

	session := &Session{ID: id, UserID: userID}
	if ttl, err := s.client.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
		session.ExpiresAt = time.Now().Add(ttl)
	}
	return session, nil
}

// Delete implements SessionStore
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping implements SessionStore
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

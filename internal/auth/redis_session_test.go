package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newTestRedisStore connects to ORGDESK_TEST_REDIS_ADDR or skips
func newTestRedisStore(t *testing.T) *RedisSessionStore {
	t.Helper()
	addr := os.Getenv("ORGDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ORGDESK_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client)
}

func TestRedisSessionKey(t *testing.T) {
	if got := redisSessionKey("abc"); got != "orgdesk:session:abc" {
		t.Errorf("redisSessionKey = %q", got)
	}
}

func TestRedisSessionStore_RejectsExpired(t *testing.T) {
	// Fails before any network call
	s := NewRedisSessionStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	err := s.Save(context.Background(), &Session{ID: "x", UserID: 1, ExpiresAt: time.Now().Add(-time.Second)})
	if err == nil {
		t.Error("expected error saving an expired session")
	}
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}

	id := "test-" + time.Now().Format("150405.000000")
	if err := s.Save(ctx, &Session{ID: id, UserID: 9, ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.UserID != 9 {
		t.Errorf("UserID = %d, want 9", got.UserID)
	}
	if got.ExpiresAt.IsZero() {
		t.Error("ExpiresAt not populated from PTTL")
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := s.Get(ctx, id); got != nil {
		t.Error("session still present after Delete()")
	}
}

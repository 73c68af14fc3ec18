package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// MemorySessionStore
// ---------------------------------------------------------------------------

func TestMemorySessionStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()

	if err := s.Save(ctx, &Session{ID: "a", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.UserID != 7 {
		t.Errorf("UserID = %d, want 7", got.UserID)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := s.Get(ctx, "a"); got != nil {
		t.Error("session still present after Delete()")
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	_ = s.Save(ctx, &Session{ID: "old", UserID: 1, ExpiresAt: now.Add(-time.Second)})
	_ = s.Save(ctx, &Session{ID: "live", UserID: 1, ExpiresAt: now.Add(time.Hour)})
	_ = s.Save(ctx, &Session{ID: "stale", UserID: 1, ExpiresAt: now})

	if got, _ := s.Get(ctx, "old"); got != nil {
		t.Error("expired session returned")
	}
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep() removed %d, want 1", n)
	}
	if got, _ := s.Get(ctx, "live"); got == nil {
		t.Error("live session swept")
	}
}

func TestMemorySessionStore_SweeperStops(t *testing.T) {
	s := NewMemorySessionStore()
	ctx, cancel := context.WithCancel(context.Background())
	s.StartSweeper(ctx, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	cancel()
}

// ---------------------------------------------------------------------------
// SessionManager
// ---------------------------------------------------------------------------

func TestSessionManager_OpenResolveRevoke(t *testing.T) {
	resetJWTSecret()
	ctx := context.Background()
	m := NewSessionManager(NewMemorySessionStore(), time.Hour)

	token, session, err := m.Open(ctx, 5)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if session.UserID != 5 || session.ID == "" {
		t.Fatalf("session = %+v", session)
	}

	resolved, err := m.Resolve(ctx, token)
	if err != nil || resolved == nil {
		t.Fatalf("Resolve() = %v, %v", resolved, err)
	}
	if resolved.ID != session.ID {
		t.Errorf("resolved session %s, want %s", resolved.ID, session.ID)
	}

	if err := m.Revoke(ctx, session.ID); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}
	resolved, err = m.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve() after revoke error: %v", err)
	}
	if resolved != nil {
		t.Error("revoked token still resolves")
	}
}

func TestSessionManager_ResolveInvalidToken(t *testing.T) {
	resetJWTSecret()
	m := NewSessionManager(NewMemorySessionStore(), time.Hour)
	got, err := m.Resolve(context.Background(), "garbage")
	if err != nil || got != nil {
		t.Errorf("Resolve(garbage) = %v, %v; want nil, nil", got, err)
	}
}

func TestSessionManager_ResolveUserMismatch(t *testing.T) {
	resetJWTSecret()
	ctx := context.Background()
	store := NewMemorySessionStore()
	m := NewSessionManager(store, time.Hour)

	_ = store.Save(ctx, &Session{ID: "s1", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)})
	token, err := GenerateJWT(2, "s1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}
	if got, _ := m.Resolve(ctx, token); got != nil {
		t.Error("token for another user resolved the session")
	}
}

type failingStore struct{ MemorySessionStore }

var errStore = errors.New("store down")

func (f *failingStore) Save(context.Context, *Session) error { return errStore }
func (f *failingStore) Get(context.Context, string) (*Session, error) {
	return nil, errStore
}
func (f *failingStore) Delete(context.Context, string) error { return errStore }

func TestSessionManager_StoreErrors(t *testing.T) {
	resetJWTSecret()
	ctx := context.Background()
	m := NewSessionManager(&failingStore{}, time.Hour)

	if _, _, err := m.Open(ctx, 1); !errors.Is(err, errStore) {
		t.Errorf("Open() error = %v, want errStore", err)
	}

	token, _ := GenerateJWT(1, "s", time.Hour)
	if _, err := m.Resolve(ctx, token); !errors.Is(err, errStore) {
		t.Errorf("Resolve() error = %v, want errStore", err)
	}
	if err := m.Revoke(ctx, "s"); !errors.Is(err, errStore) {
		t.Errorf("Revoke() error = %v, want errStore", err)
	}
}

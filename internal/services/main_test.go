package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/db/memory"
	"github.com/orgdesk/orgdesk/internal/db/models"
	"github.com/orgdesk/orgdesk/internal/validation"
)

func TestMain(m *testing.M) {
	os.Setenv(auth.JWTSecretEnv, "services-test-secret-at-least-32-chars")
	os.Exit(m.Run())
}

// fixture wires every service over one in-memory store
type fixture struct {
	store    *memory.Store
	sessions *auth.SessionManager
	session  *SessionService
	orgs     *OrgService
	clients  *ClientService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	sessions := auth.NewSessionManager(auth.NewMemorySessionStore(), time.Hour)
	return &fixture{
		store:    store,
		sessions: sessions,
		session:  NewSessionService(store, sessions),
		orgs:     NewOrgService(store, true),
		clients:  NewClientService(store, store, false),
	}
}

// user creates an account directly in the store and returns its identity
func (f *fixture) user(t *testing.T, email string) *auth.Identity {
	t.Helper()
	u := &models.User{Username: email, Email: email, Password: "x"}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return &auth.Identity{User: u, SessionID: "test"}
}

func (f *fixture) org(t *testing.T, owner *auth.Identity, name string) *models.Org {
	t.Helper()
	o, err := f.orgs.Create(context.Background(), owner, map[string]any{"name": name})
	require.NoError(t, err)
	return o
}

func (f *fixture) client(t *testing.T, owner *auth.Identity, name string, orgID int64) *models.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), owner, map[string]any{"name": name, "orgId": float64(orgID)})
	require.NoError(t, err)
	return c
}

func requireFieldErrors(t *testing.T, err error) []validation.FieldError {
	t.Helper()
	ve, ok := validation.AsError(err)
	require.True(t, ok, "expected validation error, got %T: %v", err, err)
	return ve.Errors
}

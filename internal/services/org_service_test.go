package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgdesk/orgdesk/internal/auth"
)

// ---------------------------------------------------------------------------
// List / Create
// ---------------------------------------------------------------------------

func TestOrgList_OnlyOwnOrgsInCreationOrder(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	f.org(t, alice, "a1")
	f.org(t, bob, "b1")
	f.org(t, alice, "a2")

	orgs, err := f.orgs.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "a1", orgs[0].Name)
	assert.Equal(t, "a2", orgs[1].Name)
}

func TestOrgList_EmptyIsNotNil(t *testing.T) {
	f := newFixture(t)
	orgs, err := f.orgs.List(context.Background(), f.user(t, "a@example.com"))
	require.NoError(t, err)
	assert.NotNil(t, orgs)
	assert.Empty(t, orgs)
}

func TestOrgCreate_OwnerIsRequester(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")

	org := f.org(t, alice, "acme")
	assert.Equal(t, alice.UserID(), org.OwnerID)
	assert.NotZero(t, org.ID)
}

func TestOrgCreate_DuplicateName(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	f.org(t, alice, "acme")

	_, err := f.orgs.Create(context.Background(), bob, map[string]any{"name": "acme"})
	errs := requireFieldErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "The name has already been taken", errs[0].Message)
	assert.Equal(t, "database.unique", errs[0].Rule)

	orgs, _ := f.orgs.List(context.Background(), bob)
	assert.Empty(t, orgs, "nothing persisted")
}

func TestOrgCreate_MissingName(t *testing.T) {
	f := newFixture(t)
	_, err := f.orgs.Create(context.Background(), f.user(t, "a@example.com"), map[string]any{})
	errs := requireFieldErrors(t, err)
	assert.Equal(t, "The name field must be defined", errs[0].Message)
}

func TestOrgCreate_Anonymous(t *testing.T) {
	f := newFixture(t)
	_, err := f.orgs.Create(context.Background(), nil, map[string]any{"name": "acme"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

// ---------------------------------------------------------------------------
// Read
// ---------------------------------------------------------------------------

func TestOrgRead(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	org := f.org(t, alice, "acme")

	got, err := f.orgs.Read(context.Background(), alice, map[string]any{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)

	_, err = f.orgs.Read(context.Background(), bob, map[string]any{"id": "1"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestOrgRead_OwnershipFlagOff(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	f.org(t, alice, "acme")

	open := NewOrgService(f.store, false)
	got, err := open.Read(context.Background(), bob, map[string]any{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)

	_, err = open.Read(context.Background(), nil, map[string]any{"id": "1"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestOrgRead_Missing(t *testing.T) {
	f := newFixture(t)
	_, err := f.orgs.Read(context.Background(), f.user(t, "a@example.com"), map[string]any{"id": "404"})
	errs := requireFieldErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "The selected id is invalid", errs[0].Message)
	assert.Equal(t, "database.exists", errs[0].Rule)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestOrgUpdate_Rename(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	org := f.org(t, alice, "acme")

	got, err := f.orgs.Update(context.Background(), alice, map[string]any{"id": "1", "name": "acme-2"})
	require.NoError(t, err)
	assert.Equal(t, "acme-2", got.Name)

	stored, _ := f.store.GetOrgByID(context.Background(), org.ID)
	assert.Equal(t, "acme-2", stored.Name)
}

func TestOrgUpdate_SameNameAllowed(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.org(t, alice, "acme")

	_, err := f.orgs.Update(context.Background(), alice, map[string]any{"id": "1", "name": "acme"})
	require.NoError(t, err)
}

func TestOrgUpdate_NameTakenByOther(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	f.org(t, alice, "acme")
	f.org(t, alice, "globex")

	_, err := f.orgs.Update(context.Background(), alice, map[string]any{"id": "1", "name": "globex"})
	errs := requireFieldErrors(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "database.unique", errs[0].Rule)
}

func TestOrgUpdate_IdCheckedBeforeName(t *testing.T) {
	f := newFixture(t)
	_, err := f.orgs.Update(context.Background(), f.user(t, "a@example.com"), map[string]any{"id": "404"})
	errs := requireFieldErrors(t, err)
	require.Len(t, errs, 1, "name is not validated until id passes")
	assert.Equal(t, "id", errs[0].Field)
}

func TestOrgUpdate_NonOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	f.org(t, alice, "acme")

	_, err := f.orgs.Update(context.Background(), bob, map[string]any{"id": "1", "name": "stolen"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	stored, _ := f.store.GetOrgByID(context.Background(), 1)
	assert.Equal(t, "acme", stored.Name)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestOrgDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")
	org := f.org(t, alice, "acme")
	client := f.client(t, alice, "widget", org.ID)

	err := f.orgs.Delete(context.Background(), bob, map[string]any{"id": "1"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	require.NoError(t, f.orgs.Delete(context.Background(), alice, map[string]any{"id": "1"}))

	stored, _ := f.store.GetOrgByID(context.Background(), org.ID)
	assert.Nil(t, stored)
	c, _ := f.store.GetClientByID(context.Background(), client.ID)
	assert.Nil(t, c, "clients are deleted with their org")

	err = f.orgs.Delete(context.Background(), alice, map[string]any{"id": "1"})
	errs := requireFieldErrors(t, err)
	assert.Equal(t, "database.exists", errs[0].Rule)
}

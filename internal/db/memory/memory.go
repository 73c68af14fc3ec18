// Package memory provides an in-process store backend for local development
// and tests. It enforces the same unique and foreign key constraints as the
// PostgreSQL schema, including cascading deletes. Data is lost on restart.
//
// Import it for side effects to register the "memory" driver:
//
//	import _ "github.com/orgdesk/orgdesk/internal/db/memory"
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/db"
	"github.com/orgdesk/orgdesk/internal/db/models"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
)

func init() {
	db.Register("memory", func(_ context.Context, _ *config.DatabaseConfig) (*db.Backend, error) {
		return NewBackend(), nil
	})
}

// Store implements UserStore, OrgStore and ClientStore over maps.
// A single mutex makes every call atomic.
type Store struct {
	mu sync.RWMutex

	users   map[int64]models.User
	orgs    map[int64]models.Org
	clients map[int64]models.Client

	nextUserID   int64
	nextOrgID    int64
	nextClientID int64
}

var (
	_ repositories.UserStore   = (*Store)(nil)
	_ repositories.OrgStore    = (*Store)(nil)
	_ repositories.ClientStore = (*Store)(nil)
)

// New creates an empty store
func New() *Store {
	return &Store{
		users:   make(map[int64]models.User),
		orgs:    make(map[int64]models.Org),
		clients: make(map[int64]models.Client),
	}
}

// NewBackend wraps a fresh Store in a db.Backend
func NewBackend() *db.Backend {
	s := New()
	return db.NewBackend(s, s, s, nil, nil)
}

func uniqueViolation(constraint string) error {
	return &repositories.ConstraintError{
		Kind:       repositories.ConstraintUnique,
		Constraint: constraint,
		Err:        fmt.Errorf("duplicate key value violates unique constraint %q", constraint),
	}
}

func foreignKeyViolation(constraint string) error {
	return &repositories.ConstraintError{
		Kind:       repositories.ConstraintForeignKey,
		Constraint: constraint,
		Err:        fmt.Errorf("insert or update violates foreign key constraint %q", constraint),
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// CreateUser implements repositories.UserStore
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w", uniqueViolation(repositories.UsersEmailKey))
		}
	}

	s.nextUserID++
	now := models.Now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

// GetUserByID implements repositories.UserStore
func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByEmail implements repositories.UserStore
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Orgs
// ---------------------------------------------------------------------------

func (s *Store) orgNameTaken(name string, exceptID int64) bool {
	for _, o := range s.orgs {
		if o.Name == name && o.ID != exceptID {
			return true
		}
	}
	return false
}

// CreateOrg implements repositories.OrgStore
func (s *Store) CreateOrg(_ context.Context, org *models.Org) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orgNameTaken(org.Name, 0) {
		return fmt.Errorf("failed to create organization: %w", uniqueViolation(repositories.OrgsNameKey))
	}
	if _, ok := s.users[org.OwnerID]; !ok {
		return fmt.Errorf("failed to create organization: %w", foreignKeyViolation(repositories.OrgsOwnerIDFkey))
	}

	s.nextOrgID++
	now := models.Now()
	org.ID = s.nextOrgID
	org.CreatedAt = now
	org.UpdatedAt = now
	s.orgs[org.ID] = *org
	return nil
}

// GetOrgByID implements repositories.OrgStore
func (s *Store) GetOrgByID(_ context.Context, id int64) (*models.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// GetOrgByName implements repositories.OrgStore
func (s *Store) GetOrgByName(_ context.Context, name string) (*models.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orgs {
		if o.Name == name {
			return &o, nil
		}
	}
	return nil, nil
}

// ListOrgsByOwner implements repositories.OrgStore
func (s *Store) ListOrgsByOwner(_ context.Context, ownerID int64) ([]models.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orgs := []models.Org{}
	for _, o := range s.orgs {
		if o.OwnerID == ownerID {
			orgs = append(orgs, o)
		}
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].ID < orgs[j].ID })
	return orgs, nil
}

// UpdateOrg implements repositories.OrgStore
func (s *Store) UpdateOrg(_ context.Context, org *models.Org) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orgs[org.ID]
	if !ok {
		return fmt.Errorf("organization: %w", repositories.ErrNotFound)
	}
	if s.orgNameTaken(org.Name, org.ID) {
		return fmt.Errorf("failed to update organization: %w", uniqueViolation(repositories.OrgsNameKey))
	}

	existing.Name = org.Name
	existing.UpdatedAt = models.Now()
	s.orgs[org.ID] = existing
	*org = existing
	return nil
}

// DeleteOrg implements repositories.OrgStore. Clients of the org are removed
// with it.
func (s *Store) DeleteOrg(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[id]; !ok {
		return fmt.Errorf("organization: %w", repositories.ErrNotFound)
	}
	delete(s.orgs, id)
	for cid, c := range s.clients {
		if c.OrgID == id {
			delete(s.clients, cid)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Clients
// ---------------------------------------------------------------------------

func (s *Store) clientNameTaken(name string, exceptID int64) bool {
	for _, c := range s.clients {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

// CreateClient implements repositories.ClientStore
func (s *Store) CreateClient(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clientNameTaken(client.Name, 0) {
		return fmt.Errorf("failed to create client: %w", uniqueViolation(repositories.ClientsNameKey))
	}
	if _, ok := s.orgs[client.OrgID]; !ok {
		return fmt.Errorf("failed to create client: %w", foreignKeyViolation(repositories.ClientsOrgIDFkey))
	}

	s.nextClientID++
	now := models.Now()
	client.ID = s.nextClientID
	client.CreatedAt = now
	client.UpdatedAt = now
	s.clients[client.ID] = *client
	return nil
}

// GetClientByID implements repositories.ClientStore
func (s *Store) GetClientByID(_ context.Context, id int64) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetClientByName implements repositories.ClientStore
func (s *Store) GetClientByName(_ context.Context, name string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

// UpdateClient implements repositories.ClientStore
func (s *Store) UpdateClient(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.clients[client.ID]
	if !ok {
		return fmt.Errorf("client: %w", repositories.ErrNotFound)
	}
	if s.clientNameTaken(client.Name, client.ID) {
		return fmt.Errorf("failed to update client: %w", uniqueViolation(repositories.ClientsNameKey))
	}
	if _, ok := s.orgs[client.OrgID]; !ok {
		return fmt.Errorf("failed to update client: %w", foreignKeyViolation(repositories.ClientsOrgIDFkey))
	}

	existing.Name = client.Name
	existing.OrgID = client.OrgID
	existing.UpdatedAt = models.Now()
	s.clients[client.ID] = existing
	*client = existing
	return nil
}

// DeleteClient implements repositories.ClientStore
func (s *Store) DeleteClient(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return fmt.Errorf("client: %w", repositories.ErrNotFound)
	}
	delete(s.clients, id)
	return nil
}

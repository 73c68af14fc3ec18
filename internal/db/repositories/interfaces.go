// Package repositories implements the data access layer (repository pattern) for orgdesk.
// Each repository type encapsulates all database queries for one entity.
// Use-cases depend on the Store interfaces below, never on SQL, so the PostgreSQL
// repositories and the in-memory backend are interchangeable.
//
// Lookups return (nil, nil) when no row matches. Updates and deletes that hit
// no row return ErrNotFound.
package repositories

import (
	"context"

	"github.com/orgdesk/orgdesk/internal/db/models"
)

// UserStore is the identity store
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// OrgStore holds organizations, the first level of the ownership graph
type OrgStore interface {
	CreateOrg(ctx context.Context, org *models.Org) error
	GetOrgByID(ctx context.Context, id int64) (*models.Org, error)
	GetOrgByName(ctx context.Context, name string) (*models.Org, error)
	ListOrgsByOwner(ctx context.Context, ownerID int64) ([]models.Org, error)
	UpdateOrg(ctx context.Context, org *models.Org) error
	DeleteOrg(ctx context.Context, id int64) error
}

// ClientStore holds clients, the second level of the ownership graph
type ClientStore interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	GetClientByName(ctx context.Context, name string) (*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id int64) error
}

// Compile-time interface checks
var (
	_ UserStore   = (*UserRepository)(nil)
	_ OrgStore    = (*OrgRepository)(nil)
	_ ClientStore = (*ClientRepository)(nil)
)

// Package auth - gate.go is the ownership gate. Every mutating use-case calls
// Authorize after validation and before touching the store.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgdesk/orgdesk/internal/db/models"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
)

// ErrUnauthorized is returned for anonymous requesters and for requesters that
// do not own the target. Both cases are indistinguishable to the caller.
var ErrUnauthorized = errors.New("unauthorized access")

// Authorize allows the request only when id is authenticated and owns ownerID
func Authorize(id *Identity, ownerID int64) error {
	if id == nil || id.User == nil || id.User.ID != ownerID {
		return ErrUnauthorized
	}
	return nil
}

// OrgOwner returns the user that owns org
func OrgOwner(org *models.Org) int64 {
	return org.OwnerID
}

// ClientOwner resolves a client's effective owner by loading its org. It
// returns repositories.ErrNotFound if the org disappeared.
func ClientOwner(ctx context.Context, orgs repositories.OrgStore, client *models.Client) (int64, error) {
	org, err := orgs.GetOrgByID(ctx, client.OrgID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve client owner: %w", err)
	}
	if org == nil {
		return 0, fmt.Errorf("org %d of client %d: %w", client.OrgID, client.ID, repositories.ErrNotFound)
	}
	return OrgOwner(org), nil
}

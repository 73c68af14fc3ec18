// Package auth - identity.go defines the authenticated requester that the
// session middleware resolves and passes to every use-case.
package auth

import "github.com/orgdesk/orgdesk/internal/db/models"

// Identity is an authenticated requester. A nil *Identity is anonymous.
type Identity struct {
	User      *models.User
	SessionID string
}

// UserID returns the requester's user id, or 0 for anonymous
func (i *Identity) UserID() int64 {
	if i == nil || i.User == nil {
		return 0
	}
	return i.User.ID
}

// Package models - org.go defines the Org model: a named tenant owned by
// exactly one user.
package models

// Org represents an organization. Name is unique across all orgs.
type Org struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   int64     `db:"owner_id" json:"ownerId"`
	CreatedAt Timestamp `db:"created_at" json:"createdAt"`
	UpdatedAt Timestamp `db:"updated_at" json:"updatedAt"`
}

// Package models - client.go defines the Client model: a named record that
// belongs to one Org and is authorized through that Org's owner.
package models

// Client represents a client of an organization. Name is unique across all
// clients.
type Client struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OrgID     int64     `db:"org_id" json:"orgId"`
	CreatedAt Timestamp `db:"created_at" json:"createdAt"`
	UpdatedAt Timestamp `db:"updated_at" json:"updatedAt"`
}

// ClientPatch lists the fields of a partial client update. Nil fields are left
// unchanged.
type ClientPatch struct {
	Name  *string
	OrgID *int64
}

// IsEmpty reports whether the patch changes nothing
func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.OrgID == nil
}

// Apply copies the set fields of the patch onto c
func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.OrgID != nil {
		c.OrgID = *p.OrgID
	}
}

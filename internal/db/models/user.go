// Package models - user.go defines the User model: an account that can log in
// and own organizations.
package models

// User represents an account in the system. Password holds the bcrypt hash and
// is never serialized.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt Timestamp `db:"created_at" json:"createdAt"`
	UpdatedAt Timestamp `db:"updated_at" json:"updatedAt"`
}

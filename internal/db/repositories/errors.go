// errors.go maps PostgreSQL constraint violations to ConstraintError so callers
// can report a lost uniqueness or reference race with the same shape as the
// validation pre-check, without importing the driver.
package repositories

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned by updates and deletes whose target row is gone
var ErrNotFound = errors.New("record not found")

// ConstraintKind classifies a constraint violation
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
)

// PostgreSQL SQLSTATE codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Constraint names from the embedded migrations
const (
	UsersEmailKey    = "users_email_key"
	OrgsNameKey      = "orgs_name_key"
	OrgsOwnerIDFkey  = "orgs_owner_id_fkey"
	ClientsNameKey   = "clients_name_key"
	ClientsOrgIDFkey = "clients_org_id_fkey"
)

// ConstraintError reports a write rejected by a unique or foreign key constraint
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint %q violated: %v", e.Kind, e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether err is a violation of the named constraint
func IsConstraint(err error, name string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == name
}

// mapConstraintError converts a *pq.Error for a unique or foreign key violation
// into a *ConstraintError. Any other error is returned unchanged.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return &ConstraintError{Kind: ConstraintUnique, Constraint: pqErr.Constraint, Err: err}
	case pqForeignKeyViolation:
		return &ConstraintError{Kind: ConstraintForeignKey, Constraint: pqErr.Constraint, Err: err}
	}
	return err
}

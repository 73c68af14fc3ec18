// Package services implements the orgdesk use-cases. Each operation validates
// its input, resolves the target and its ownership chain, runs the ownership
// gate, and only then mutates the store. Any failure returns before a write.
//
// Use-cases receive the requester as an explicit *auth.Identity; they never
// read request state.
package services

import (
	"errors"
	"fmt"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
	"github.com/orgdesk/orgdesk/internal/telemetry"
	"github.com/orgdesk/orgdesk/internal/validation"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password alike
var ErrInvalidCredentials = errors.New("invalid user credentials")

// authorize runs the ownership gate and counts denials per resource
func authorize(resource string, id *auth.Identity, ownerID int64) error {
	if err := auth.Authorize(id, ownerID); err != nil {
		telemetry.AuthorizationDenialsTotal.WithLabelValues(resource).Inc()
		return err
	}
	return nil
}

// requireIdentity rejects anonymous callers of operations that have no owner
// to check against (list, create)
func requireIdentity(resource string, id *auth.Identity) error {
	if id == nil || id.User == nil {
		telemetry.AuthorizationDenialsTotal.WithLabelValues(resource).Inc()
		return auth.ErrUnauthorized
	}
	return nil
}

// constraintToValidation reports a store constraint violation with the same
// shape as the matching pre-check. Unmapped errors are wrapped with op.
func constraintToValidation(err error, op string, fields map[string]func() *validation.Error) error {
	var ce *repositories.ConstraintError
	if errors.As(err, &ce) {
		if build, ok := fields[ce.Constraint]; ok {
			return build()
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

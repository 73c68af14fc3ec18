// Package validation implements declarative request schemas: ordered fields,
// synchronous rules, and asynchronous store lookups (database.unique,
// database.exists) that run concurrently. Every violation is reported in the
// structured {message, field, rule, meta} shape the API returns verbatim.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names as they appear in API error bodies
const (
	RuleRequired  = "required"
	RuleString    = "string"
	RuleNumber    = "number"
	RuleEmail     = "email"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleConfirmed = "confirmed"
	RuleUnique    = "database.unique"
	RuleExists    = "database.exists"
)

// FieldError is one entry of an error response
type FieldError struct {
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Rule    string         `json:"rule,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error is a failed validation. Errors are in schema declaration order, at
// most one per field.
type Error struct {
	Errors []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsError extracts a *Error from err's chain
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NewFieldError builds the entry for a failed rule on field
func NewFieldError(field, rule string, meta map[string]any) FieldError {
	return FieldError{
		Message: message(field, rule, meta),
		Field:   field,
		Rule:    rule,
		Meta:    meta,
	}
}

// Fail wraps a single field error
func Fail(field, rule string, meta map[string]any) *Error {
	return &Error{Errors: []FieldError{NewFieldError(field, rule, meta)}}
}

// Unique is the error for a value that is already taken
func Unique(field string) *Error {
	return Fail(field, RuleUnique, nil)
}

// Exists is the error for a reference to a missing record
func Exists(field string) *Error {
	return Fail(field, RuleExists, nil)
}

func message(field, rule string, meta map[string]any) string {
	switch rule {
	case RuleRequired:
		return fmt.Sprintf("The %s field must be defined", field)
	case RuleString:
		return fmt.Sprintf("The %s field must be a string", field)
	case RuleNumber:
		return fmt.Sprintf("The %s field must be a number", field)
	case RuleEmail:
		return fmt.Sprintf("The %s field must be a valid email address", field)
	case RuleMinLength:
		return fmt.Sprintf("The %s field must have at least %v characters", field, meta["min"])
	case RuleMaxLength:
		return fmt.Sprintf("The %s field must not be greater than %v characters", field, meta["max"])
	case RuleConfirmed:
		return fmt.Sprintf("The %s field and %v field must be the same", field, meta["otherField"])
	case RuleUnique:
		return fmt.Sprintf("The %s has already been taken", field)
	case RuleExists:
		return fmt.Sprintf("The selected %s is invalid", field)
	default:
		return fmt.Sprintf("The %s field is invalid", field)
	}
}

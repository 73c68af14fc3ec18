package validation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Kind is the type a field's value is coerced to
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

// LookupFunc asks a store whether a record with the given value exists.
// value is a string for string fields and an int64 for number fields.
type LookupFunc func(ctx context.Context, value any) (bool, error)

type rule struct {
	name  string
	meta  map[string]any
	check func(value any, input map[string]any) bool
}

type asyncRule struct {
	name string
	// wantFound is true for database.exists and false for database.unique
	wantFound bool
	lookup    LookupFunc
}

// Field is one schema entry. Build it with String or Number and chain rules.
type Field struct {
	name     string
	kind     Kind
	optional bool
	rules    []rule
	async    *asyncRule
}

// String declares a required string field
func String(name string) *Field {
	return &Field{name: name, kind: KindString}
}

// Number declares a required integral number field. Numeric strings are
// accepted so path parameters can be validated directly.
func Number(name string) *Field {
	return &Field{name: name, kind: KindNumber}
}

// Optional lets the field be absent. Present values are still checked.
func (f *Field) Optional() *Field {
	f.optional = true
	return f
}

// Unique fails with database.unique when lookup reports a match
func (f *Field) Unique(lookup LookupFunc) *Field {
	f.async = &asyncRule{name: RuleUnique, wantFound: false, lookup: lookup}
	return f
}

// Exists fails with database.exists when lookup reports no match
func (f *Field) Exists(lookup LookupFunc) *Field {
	f.async = &asyncRule{name: RuleExists, wantFound: true, lookup: lookup}
	return f
}

// Schema is an ordered list of fields
type Schema struct {
	fields []*Field
}

// NewSchema creates a schema; errors are reported in this field order
func NewSchema(fields ...*Field) *Schema {
	return &Schema{fields: fields}
}

// Validate checks input against every field.
//
// Within a field rules run in declaration order and stop at the first
// failure. Fields never short-circuit each other. Lookups of different fields
// run concurrently. A lookup that returns an error aborts validation with that
// error. On success the coerced values of all present fields are returned.
func (s *Schema) Validate(ctx context.Context, input map[string]any) (Values, error) {
	if input == nil {
		input = map[string]any{}
	}

	slots := make([]*FieldError, len(s.fields))
	values := make(Values, len(s.fields))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.fields {
		value, fe := f.check(input)
		if fe != nil {
			slots[i] = fe
			continue
		}
		if value == nil {
			continue // optional and absent
		}
		values[f.name] = value

		if f.async == nil {
			continue
		}
		g.Go(func() error {
			found, err := f.async.lookup(gctx, value)
			if err != nil {
				return fmt.Errorf("%s lookup for %s: %w", f.async.name, f.name, err)
			}
			if found != f.async.wantFound {
				fe := NewFieldError(f.name, f.async.name, nil)
				slots[i] = &fe
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []FieldError
	for _, fe := range slots {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) > 0 {
		return nil, &Error{Errors: errs}
	}
	return values, nil
}

// check runs presence, type and synchronous rules. It returns the coerced value
// (nil when an optional field is absent) or the first failure.
func (f *Field) check(input map[string]any) (any, *FieldError) {
	raw, ok := input[f.name]
	if !ok || raw == nil || raw == "" {
		if f.optional {
			return nil, nil
		}
		fe := NewFieldError(f.name, RuleRequired, nil)
		return nil, &fe
	}

	var value any
	switch f.kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			fe := NewFieldError(f.name, RuleString, nil)
			return nil, &fe
		}
		value = s
	case KindNumber:
		n, ok := ToInt64(raw)
		if !ok {
			fe := NewFieldError(f.name, RuleNumber, nil)
			return nil, &fe
		}
		value = n
	}

	for _, r := range f.rules {
		if !r.check(value, input) {
			fe := NewFieldError(f.name, r.name, r.meta)
			return nil, &fe
		}
	}
	return value, nil
}

package validation

// Values holds the coerced values of the fields present in a valid input
type Values map[string]any

// Has reports whether field was present
func (v Values) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// String returns a string field's value, or "" when absent
func (v Values) String(field string) string {
	s, _ := v[field].(string)
	return s
}

// Int64 returns a number field's value, or 0 when absent
func (v Values) Int64(field string) int64 {
	n, _ := v[field].(int64)
	return n
}

// OptionalString returns a pointer to a string field's value, nil when absent
func (v Values) OptionalString(field string) *string {
	s, ok := v[field].(string)
	if !ok {
		return nil
	}
	return &s
}

// OptionalInt64 returns a pointer to a number field's value, nil when absent
func (v Values) OptionalInt64(field string) *int64 {
	n, ok := v[field].(int64)
	if !ok {
		return nil
	}
	return &n
}

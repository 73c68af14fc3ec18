// Package models - timestamp.go defines Timestamp, the time type every model
// uses for createdAt/updatedAt so the JSON form is ISO-8601 with millisecond
// precision and an explicit numeric offset (2024-06-09T22:17:46.193+00:00).
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimestampLayout is the wire format of every timestamp in API responses
const TimestampLayout = "2006-01-02T15:04:05.000-07:00"

// Timestamp wraps time.Time with the API's JSON format
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to millisecond precision
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC().Truncate(time.Millisecond)}
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. RFC 3339 input is accepted as well
// so the value round-trips through clients that re-serialize it.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	s = s[1 : len(s)-1]

	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Slots is an ordered list of time slots, used for both an event's proposed
// times and a person's availability. It is stored as a JSON array of strings
// in a single column, independent of the backend's native column types.
type Slots []string

// Value implements driver.Valuer. A nil Slots is stored as an empty array.
// Slots that are not valid UTF-8 are rejected, since JSON would replace the
// bad bytes and the stored list would no longer match.
func (s Slots) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	for i, slot := range s {
		if !utf8.ValidString(slot) {
			return nil, fmt.Errorf("encode slots: slot %d is not valid UTF-8", i)
		}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("encode slots: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *Slots) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = Slots{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("decode slots: unsupported column type %T", src)
	}
	out := Slots{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode slots: %w", err)
	}
	if out == nil {
		out = Slots{}
	}
	*s = out
	return nil
}

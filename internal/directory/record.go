// Package directory defines the normalized person record shared across
// the crawl, filter, and load stages.
package directory

import (
	"strings"
	"unicode/utf8"
)

// Maximum stored lengths for free-text columns. Longer values are
// truncated silently before persistence.
const (
	MaxTitleLen          = 50
	MaxPositionLen       = 50
	MaxOfficeLocationLen = 50
	MaxPhoneLen          = 20
)

// Field is an optional string. The zero value is the missing sentinel;
// it is distinct from an empty string that was actually observed.
// Business logic must check IsMissing rather than compare against the
// serialized "N/A" literal, which exists only at the csvio boundary.
type Field struct {
	value   string
	present bool
}

// Missing is the absent-field sentinel.
var Missing = Field{}

// FieldOf returns a present Field holding the trimmed value. A value
// that trims to the empty string is considered missing.
func FieldOf(s string) Field {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing
	}
	return Field{value: s, present: true}
}

// IsMissing reports whether the field carries no value.
func (f Field) IsMissing() bool { return !f.present }

// Value returns the held string, or "" when missing.
func (f Field) Value() string { return f.value }

// Get returns the value and whether it is present.
func (f Field) Get() (string, bool) { return f.value, f.present }

// Truncate returns the field limited to at most max bytes, backing off
// to a rune boundary so the result stays valid UTF-8. Missing fields
// are returned unchanged.
func (f Field) Truncate(max int) Field {
	if !f.present || max <= 0 || len(f.value) <= max {
		return f
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(f.value[cut]) {
		cut--
	}
	return Field{value: f.value[:cut], present: true}
}

// Record is one normalized directory entry.
type Record struct {
	Name           Field
	Title          Field
	Position       Field
	ImageSourceURL Field
	Department     Field
	OfficeLocation Field
	Phone          Field
	Email          Field
}

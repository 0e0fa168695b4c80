// Package ids contains the project and revision identifier codecs.
//
// A project is identified by a 64-bit value with two textual encodings:
//
//  1. Current: exactly 12 characters of [0-9A-Za-z] (base62, zero-padded,
//     case-sensitive). All freshly generated ids use this shape.
//  2. Legacy: exactly 16 characters of lowercase hex. These were minted by
//     the original service and remain valid forever so stored links keep
//     resolving.
//
// The two shapes have different fixed lengths, so no text can match both.
// Parsing preserves the shape it saw; a legacy id renders back in its legacy
// form, and Upgrade returns the equivalent current-shape id for redirects.
package ids

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidFormat is returned when identifier text matches neither encoding.
var ErrInvalidFormat = errors.New("invalid identifier format")

const (
	currentIDLength = 12
	legacyIDLength  = 16

	base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var (
	currentIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{12}$`)
	legacyIDPattern  = regexp.MustCompile(`^[0-9a-f]{16}$`)
)

// ProjectID identifies a project. The zero value is not a valid id.
type ProjectID struct {
	value  uint64
	legacy bool
}

// NewProjectID generates a fresh, current-shape project id. The underlying
// value is drawn from a random UUID.
func NewProjectID() ProjectID {
	u := uuid.New()
	value := binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
	if value == 0 {
		// The zero value is reserved as "unset".
		value = 1
	}
	return ProjectID{value: value}
}

// ParseProjectID parses either encoding of a project id. The legacy pattern
// is checked first; text that matches it is never re-checked against the
// current pattern. Returns ErrInvalidFormat when neither shape matches.
func ParseProjectID(s string) (ProjectID, error) {
	switch {
	case legacyIDPattern.MatchString(s):
		value, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return ProjectID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		if value == 0 {
			return ProjectID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		return ProjectID{value: value, legacy: true}, nil

	case currentIDPattern.MatchString(s):
		value, err := decodeBase62(s)
		if err != nil || value == 0 {
			return ProjectID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
		return ProjectID{value: value}, nil

	default:
		return ProjectID{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// MustParseProjectID parses a project id, panicking on error. For test
// fixtures and constants known to be valid.
func MustParseProjectID(s string) ProjectID {
	id, err := ParseProjectID(s)
	if err != nil {
		panic(fmt.Sprintf("invalid project id %q: %v", s, err))
	}
	return id
}

// String renders the id in the shape it was parsed in. Current-shape ids
// render base62 zero-padded to 12 characters; legacy ids render as 16
// lowercase hex characters.
func (p ProjectID) String() string {
	if p.legacy {
		return fmt.Sprintf("%016x", p.value)
	}
	return encodeBase62(p.value)
}

// IsLegacy reports whether the id was parsed from the legacy encoding.
// Callers observing a legacy id should redirect clients to the URL built
// from Upgrade.
func (p ProjectID) IsLegacy() bool {
	return p.legacy
}

// Upgrade returns the current-shape equivalent of the id. It is the identity
// for ids that are already current-shape.
func (p ProjectID) Upgrade() ProjectID {
	return ProjectID{value: p.value}
}

// IsZero reports whether the id is unset.
func (p ProjectID) IsZero() bool {
	return p.value == 0
}

// Equal reports whether two ids identify the same project, regardless of
// which encoding either was parsed from.
func (p ProjectID) Equal(other ProjectID) bool {
	return p.value == other.value
}

// MarshalJSON implements json.Marshaler.
func (p ProjectID) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProjectID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("project id must be a string: %w", err)
	}
	if s == "" {
		*p = ProjectID{}
		return nil
	}
	parsed, err := ParseProjectID(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Scan implements sql.Scanner. Accepts string and []byte column values.
func (p *ProjectID) Scan(value interface{}) error {
	if value == nil {
		*p = ProjectID{}
		return nil
	}

	switch v := value.(type) {
	case string:
		return p.scanString(v)
	case []byte:
		return p.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ProjectID", value)
	}
}

func (p *ProjectID) scanString(s string) error {
	if s == "" {
		*p = ProjectID{}
		return nil
	}
	parsed, err := ParseProjectID(s)
	if err != nil {
		return fmt.Errorf("cannot scan string into ProjectID: %w", err)
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer. Returns nil for the zero id. The stored
// form is always the current shape so that a project referenced through
// either encoding maps to one row.
func (p ProjectID) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.Upgrade().String(), nil
}

func encodeBase62(value uint64) string {
	var buf [currentIDLength]byte
	for i := currentIDLength - 1; i >= 0; i-- {
		buf[i] = base62Alphabet[value%62]
		value /= 62
	}
	return string(buf[:])
}

func decodeBase62(s string) (uint64, error) {
	var value uint64
	for _, r := range s {
		digit := strings.IndexRune(base62Alphabet, r)
		if digit < 0 {
			return 0, fmt.Errorf("invalid base62 character %q", r)
		}
		// Reject encodings whose value does not fit in 64 bits.
		if value > (^uint64(0)-uint64(digit))/62 {
			return 0, fmt.Errorf("base62 value overflows")
		}
		value = value*62 + uint64(digit)
	}
	return value, nil
}

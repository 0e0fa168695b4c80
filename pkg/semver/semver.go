// Package semver implements the three-component version values used for the
// Elm runtime and for package versions. Parsing is deliberately strict: the
// editor's URLs and API only ever carry plain "major.minor.patch" triples,
// so pre-release tags, build metadata, and "v" prefixes are rejected.
package semver

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidFormat is returned for anything other than a dotted
// three-component numeric string.
var ErrInvalidFormat = errors.New("invalid version format")

var versionPattern = regexp.MustCompile(`^([0-9]+)\.([0-9]+)\.([0-9]+)$`)

// Version is a (major, minor, patch) triple. Ordering is lexicographic on
// the components; equality is component-wise.
type Version struct {
	Major int
	Minor int
	Patch int
}

// New builds a version from its components.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses a version string like "0.18.0". Leading or trailing garbage,
// missing components, and extra components all fail with ErrInvalidFormat.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// MustParse parses a version string, panicking on error. For test fixtures
// and constants known to be valid.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("invalid version %q: %v", s, err))
	}
	return v
}

// Compare returns -1, 0, or 1 as a orders before, equal to, or after b.
func Compare(a, b Version) int {
	if c := compareInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	return compareInt(a.Patch, b.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// Equal reports component-wise equality.
func (v Version) Equal(other Version) bool {
	return v == other
}

// Compatible reports whether a package declared against the candidate
// runtime version is usable with the requested runtime version. Defaults and
// installable packages are resolved against the runtime's exact
// major.minor.patch triple, so the full triple is the compatibility key.
func Compatible(candidate, requested Version) bool {
	return candidate == requested
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MarshalJSON implements json.Marshaler; versions serialize as strings.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("version must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Scan implements sql.Scanner. Accepts string and []byte column values.
func (v *Version) Scan(value interface{}) error {
	switch s := value.(type) {
	case string:
		parsed, err := Parse(s)
		if err != nil {
			return fmt.Errorf("cannot scan string into Version: %w", err)
		}
		*v = parsed
		return nil
	case []byte:
		return v.Scan(string(s))
	default:
		return fmt.Errorf("cannot scan %T into Version", value)
	}
}

// Value implements driver.Valuer.
func (v Version) Value() (driver.Value, error) {
	return v.String(), nil
}

package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// RevisionID addresses one immutable revision of a project: the project id
// plus a zero-based sequence number. For a fixed project the valid numbers
// form a contiguous prefix of the non-negative integers; that invariant is
// enforced at confirm time by the revision store, not here.
type RevisionID struct {
	Project ProjectID
	Number  int
}

// NewRevisionID builds a revision id. It does not check that the revision
// exists.
func NewRevisionID(project ProjectID, number int) RevisionID {
	return RevisionID{Project: project, Number: number}
}

// ParseRevisionID parses the two textual components of a revision id. The
// number must be a non-negative base-10 integer; anything else (including a
// leading sign or surrounding whitespace) is ErrInvalidFormat.
func ParseRevisionID(projectText, numberText string) (RevisionID, error) {
	project, err := ParseProjectID(projectText)
	if err != nil {
		return RevisionID{}, err
	}
	number, err := ParseRevisionNumber(numberText)
	if err != nil {
		return RevisionID{}, err
	}
	return RevisionID{Project: project, Number: number}, nil
}

// ParseRevisionNumber parses a revision sequence number.
func ParseRevisionNumber(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: revision number %q", ErrInvalidFormat, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: revision number %q", ErrInvalidFormat, s)
	}
	return n, nil
}

// Previous returns the id of the immediate predecessor revision. It is the
// caller's responsibility not to call this on revision 0.
func (r RevisionID) Previous() RevisionID {
	return RevisionID{Project: r.Project, Number: r.Number - 1}
}

// String renders the id as "project/number", with the project in the shape
// it was parsed in.
func (r RevisionID) String() string {
	return fmt.Sprintf("%s/%d", r.Project, r.Number)
}

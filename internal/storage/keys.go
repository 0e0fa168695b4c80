package storage

import (
	"fmt"

	"github.com/shoemakerdr/ellie/pkg/ids"
)

// Content types of the two artifacts that make up a revision.
const (
	SnapshotContentType = "application/json"
	ResultContentType   = "text/html"
)

// SnapshotKey returns the storage key of a revision's source snapshot. Keys
// always use the current-shape project id so both encodings of a project
// address the same objects.
func SnapshotKey(id ids.RevisionID) string {
	return fmt.Sprintf("revisions/%s/%d.json", id.Project.Upgrade(), id.Number)
}

// ResultKey returns the storage key of a revision's compiled result.
func ResultKey(id ids.RevisionID) string {
	return fmt.Sprintf("revisions/%s/%d.html", id.Project.Upgrade(), id.Number)
}

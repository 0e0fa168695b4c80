package models

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shoemakerdr/ellie/pkg/ids"
)

// Revision is one immutable, sequence-numbered snapshot of a project. Rows
// are only ever inserted; a new idea is published as the next number. The
// composite unique index on (project_id, revision_number) is what linearizes
// concurrent confirms for the same project: the database accepts exactly one
// insert per key.
type Revision struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	ProjectID      ids.ProjectID `gorm:"type:varchar(12);not null;uniqueIndex:idx_revisions_project_number,priority:1" json:"projectId"`
	RevisionNumber int           `gorm:"not null;uniqueIndex:idx_revisions_project_number,priority:2" json:"revisionNumber"`

	Title       string `gorm:"type:varchar(500)" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// Storage keys of the two artifacts uploaded before this row was
	// confirmed.
	SnapshotKey string `gorm:"type:varchar(500);not null" json:"-"`
	ResultKey   string `gorm:"type:varchar(500);not null" json:"-"`
}

// TableName specifies the table name.
func (Revision) TableName() string {
	return "revisions"
}

// RevisionExists reports whether the revision row exists. This is a point
// lookup on the composite unique index, never a scan.
func RevisionExists(db *gorm.DB, id ids.RevisionID) (bool, error) {
	var rev Revision
	err := db.Select("id").
		Where("project_id = ? AND revision_number = ?", id.Project, id.Number).
		First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRevision retrieves a revision row, or gorm.ErrRecordNotFound.
func GetRevision(db *gorm.DB, id ids.RevisionID) (*Revision, error) {
	var rev Revision
	err := db.
		Where("project_id = ? AND revision_number = ?", id.Project, id.Number).
		First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// MaxRevisionNumber returns the highest confirmed revision number for a
// project, and whether any revision exists at all.
func MaxRevisionNumber(db *gorm.DB, project ids.ProjectID) (int, bool, error) {
	var max sql.NullInt64
	err := db.Model(&Revision{}).
		Where("project_id = ?", project).
		Select("MAX(revision_number)").
		Scan(&max).Error
	if err != nil {
		return 0, false, err
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/shoemakerdr/ellie/pkg/semver"
)

// Package is one installable version of a library, declared compatible with
// one Elm runtime version. A library appears once per (version, elm_version)
// pair.
type Package struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`

	Username string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_packages_identity,priority:1" json:"username"`
	Project  string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_packages_identity,priority:2" json:"name"`
	Version  semver.Version `gorm:"type:varchar(50);not null;uniqueIndex:idx_packages_identity,priority:3" json:"version"`

	// ElmVersion is the runtime version this package version is declared
	// compatible with.
	ElmVersion semver.Version `gorm:"type:varchar(50);not null;uniqueIndex:idx_packages_identity,priority:4;index:idx_packages_elm_version" json:"elmVersion"`
}

// TableName specifies the table name.
func (Package) TableName() string {
	return "packages"
}

// GetPackageVersions retrieves every version of a named package declared
// compatible with the given runtime version.
func GetPackageVersions(
	db *gorm.DB, elmVersion semver.Version, username, project string,
) ([]Package, error) {
	var pkgs []Package
	err := db.
		Where("elm_version = ? AND username = ? AND project = ?",
			elmVersion, username, project).
		Find(&pkgs).Error
	return pkgs, err
}

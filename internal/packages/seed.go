package packages

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm/clause"

	"github.com/shoemakerdr/ellie/pkg/models"
	"github.com/shoemakerdr/ellie/pkg/semver"
)

type seedFile struct {
	Packages []seedEntry `yaml:"packages"`
}

type seedEntry struct {
	Username   string `yaml:"username"`
	Project    string `yaml:"project"`
	Version    string `yaml:"version"`
	ElmVersion string `yaml:"elm_version"`
}

// LoadSeedFile parses a catalog seed file into package rows. Version fields
// must be strict dotted triples.
func LoadSeedFile(fs afero.Fs, path string) ([]models.Package, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	pkgs := make([]models.Package, 0, len(file.Packages))
	for i, entry := range file.Packages {
		if entry.Username == "" || entry.Project == "" {
			return nil, fmt.Errorf(
				"seed file %s: entry %d is missing a package name", path, i)
		}
		version, err := semver.Parse(entry.Version)
		if err != nil {
			return nil, fmt.Errorf(
				"seed file %s: entry %d (%s/%s): %w",
				path, i, entry.Username, entry.Project, err)
		}
		elmVersion, err := semver.Parse(entry.ElmVersion)
		if err != nil {
			return nil, fmt.Errorf(
				"seed file %s: entry %d (%s/%s): %w",
				path, i, entry.Username, entry.Project, err)
		}
		pkgs = append(pkgs, models.Package{
			Username:   entry.Username,
			Project:    entry.Project,
			Version:    version,
			ElmVersion: elmVersion,
		})
	}

	return pkgs, nil
}

// Seed inserts the seed file's packages, skipping rows already present,
// then rebuilds the search index. Safe to run on every start.
func (c *Catalog) Seed(ctx context.Context, fs afero.Fs, path string) error {
	pkgs, err := LoadSeedFile(fs, path)
	if err != nil {
		return err
	}

	inserted := 0
	for _, pkg := range pkgs {
		res := c.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&pkg)
		if res.Error != nil {
			return fmt.Errorf("seeding package %s/%s@%s: %w",
				pkg.Username, pkg.Project, pkg.Version, res.Error)
		}
		inserted += int(res.RowsAffected)
	}

	c.logger.Info("seeded package catalog",
		"path", path,
		"entries", len(pkgs),
		"inserted", inserted,
	)

	return c.Reindex()
}

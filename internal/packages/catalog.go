// Package packages resolves installable library versions for a requested
// Elm runtime version. The authoritative data lives in the packages table;
// free-text search runs against an in-memory bleve index over the name
// components, rebuilt whenever the table changes.
package packages

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/shoemakerdr/ellie/pkg/models"
	"github.com/shoemakerdr/ellie/pkg/semver"
)

// The bootstrap pair every new project starts from.
const (
	defaultCoreUsername = "elm-lang"
	defaultCoreProject  = "core"
	defaultHTMLUsername = "elm-lang"
	defaultHTMLProject  = "html"
)

const maxSearchResults = 200

// Defaults is the fixed bootstrap package pair for a runtime version.
type Defaults struct {
	Core models.Package
	HTML models.Package
}

// Catalog resolves package versions and searches package names.
type Catalog struct {
	db     *gorm.DB
	index  bleve.Index
	logger hclog.Logger
}

// NewCatalog creates a catalog over the packages table and builds the
// search index from its current contents.
func NewCatalog(db *gorm.DB, logger hclog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = keyword.Name

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("creating package search index: %w", err)
	}

	c := &Catalog{
		db:     db,
		index:  index,
		logger: logger.Named("packages"),
	}

	if err := c.Reindex(); err != nil {
		return nil, err
	}

	return c, nil
}

// Reindex rebuilds the search index from the packages table. Called after
// seeding; package names are indexed lowercased so matching is
// case-insensitive.
func (c *Catalog) Reindex() error {
	var names []struct {
		Username string
		Project  string
	}
	err := c.db.Model(&models.Package{}).
		Distinct("username", "project").
		Find(&names).Error
	if err != nil {
		return fmt.Errorf("listing package names: %w", err)
	}

	batch := c.index.NewBatch()
	for _, n := range names {
		docID := n.Username + "/" + n.Project
		doc := map[string]interface{}{
			"username": strings.ToLower(n.Username),
			"project":  strings.ToLower(n.Project),
		}
		if err := batch.Index(docID, doc); err != nil {
			return fmt.Errorf("indexing package %s: %w", docID, err)
		}
	}
	if err := c.index.Batch(batch); err != nil {
		return fmt.Errorf("writing package search index: %w", err)
	}

	c.logger.Debug("rebuilt package search index", "packages", len(names))
	return nil
}

// VersionsFor returns every version of a named package declared compatible
// with the runtime version, ascending and duplicate-free. An unknown
// package yields an empty slice, not an error.
func (c *Catalog) VersionsFor(
	ctx context.Context, elmVersion semver.Version, username, project string,
) ([]semver.Version, error) {
	pkgs, err := models.GetPackageVersions(
		c.db.WithContext(ctx), elmVersion, username, project)
	if err != nil {
		return nil, fmt.Errorf("listing versions for %s/%s: %w",
			username, project, err)
	}

	versions := make([]semver.Version, 0, len(pkgs))
	for _, p := range pkgs {
		versions = append(versions, p.Version)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Less(versions[j])
	})

	// The identity index keeps rows unique, but the contract is a
	// duplicate-free sequence, so collapse adjacent equals anyway.
	deduped := versions[:0]
	for i, v := range versions {
		if i == 0 || !v.Equal(versions[i-1]) {
			deduped = append(deduped, v)
		}
	}

	return deduped, nil
}

// Search matches the query against package name components,
// case-insensitively, returning only versions compatible with the runtime
// version. Results order by name ascending, then version ascending.
func (c *Catalog) Search(
	ctx context.Context, elmVersion semver.Version, rawQuery string,
) ([]models.Package, error) {
	tokens := searchTokens(rawQuery)
	if len(tokens) == 0 {
		return []models.Package{}, nil
	}

	var queries []query.Query
	for _, token := range tokens {
		for _, field := range []string{"username", "project"} {
			wq := bleve.NewWildcardQuery("*" + token + "*")
			wq.SetField(field)
			queries = append(queries, wq)
		}
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = maxSearchResults

	res, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching packages for %q: %w", rawQuery, err)
	}

	var results []models.Package
	for _, hit := range res.Hits {
		username, project, ok := strings.Cut(hit.ID, "/")
		if !ok {
			continue
		}
		pkgs, err := models.GetPackageVersions(
			c.db.WithContext(ctx), elmVersion, username, project)
		if err != nil {
			return nil, fmt.Errorf("loading versions for %s: %w", hit.ID, err)
		}
		results = append(results, pkgs...)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Username != b.Username {
			return a.Username < b.Username
		}
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		return a.Version.Less(b.Version)
	})

	if results == nil {
		results = []models.Package{}
	}
	return results, nil
}

// Defaults returns the bootstrap pair (core language support plus base HTML
// rendering) at each package's latest version compatible with the runtime
// version. Nil when either has no compatible version; the caller treats
// that as fatal since no usable starting project can be offered.
func (c *Catalog) Defaults(
	ctx context.Context, elmVersion semver.Version,
) (*Defaults, error) {
	core, err := c.latestVersion(
		ctx, elmVersion, defaultCoreUsername, defaultCoreProject)
	if err != nil {
		return nil, err
	}
	html, err := c.latestVersion(
		ctx, elmVersion, defaultHTMLUsername, defaultHTMLProject)
	if err != nil {
		return nil, err
	}
	if core == nil || html == nil {
		c.logger.Error("no compatible default packages",
			"elm_version", elmVersion,
			"core_found", core != nil,
			"html_found", html != nil,
		)
		return nil, nil
	}

	return &Defaults{Core: *core, HTML: *html}, nil
}

func (c *Catalog) latestVersion(
	ctx context.Context, elmVersion semver.Version, username, project string,
) (*models.Package, error) {
	pkgs, err := models.GetPackageVersions(
		c.db.WithContext(ctx), elmVersion, username, project)
	if err != nil {
		return nil, fmt.Errorf("loading versions for %s/%s: %w",
			username, project, err)
	}
	if len(pkgs) == 0 {
		return nil, nil
	}

	latest := pkgs[0]
	for _, p := range pkgs[1:] {
		if latest.Version.Less(p.Version) {
			latest = p
		}
	}
	return &latest, nil
}

// searchTokens lowercases and splits a query, dropping wildcard
// metacharacters so user input cannot alter match semantics.
func searchTokens(rawQuery string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '*' || r == '?' {
			return -1
		}
		return r
	}, strings.ToLower(rawQuery))

	return strings.Fields(cleaned)
}

package api

import (
	"net/http"
	"strings"

	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/pkg/semver"
)

// PackageVersionsHandler lists the versions of a named package compatible
// with a runtime version. Routed at
// "GET /api/packages/{elmVersion}/{user}/{project}/versions".
func PackageVersionsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		elmVersion, username, project, ok := parsePackagePath(r.URL.Path)
		if !ok {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"invalid package path", nil, logArgs...)
			return
		}

		versions, err := srv.Catalog.VersionsFor(
			r.Context(), elmVersion, username, project)
		if err != nil {
			coreErrResp(srv.Logger, w,
				"error listing package versions", err, logArgs...)
			return
		}
		if len(versions) == 0 {
			errResp(srv.Logger, w, http.StatusNotFound,
				"Package not found", nil, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusOK, versions)
	})
}

// parsePackagePath splits
// "/api/packages/{elmVersion}/{user}/{project}/versions" into its typed
// segments.
func parsePackagePath(path string) (semver.Version, string, string, bool) {
	rest, found := strings.CutPrefix(path, "/api/packages/")
	if !found {
		return semver.Version{}, "", "", false
	}
	rest, found = strings.CutSuffix(rest, "/versions")
	if !found {
		return semver.Version{}, "", "", false
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return semver.Version{}, "", "", false
	}

	elmVersion, err := semver.Parse(parts[0])
	if err != nil {
		return semver.Version{}, "", "", false
	}

	return elmVersion, parts[1], parts[2], true
}

// SearchHandler searches the package catalog. Routed at
// "GET /api/search?query=...&elmVersion=...".
func SearchHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()
		if !query.Has("query") {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"query field must be a string", nil, logArgs...)
			return
		}

		elmVersion, err := semver.Parse(query.Get("elmVersion"))
		if err != nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"elm version must be a semver string like 0.18.0",
				err, logArgs...)
			return
		}

		results, err := srv.Catalog.Search(
			r.Context(), elmVersion, query.Get("query"))
		if err != nil {
			coreErrResp(srv.Logger, w,
				"error searching packages", err, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusOK, results)
	})
}

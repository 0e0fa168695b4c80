package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/pkg/ids"
)

//go:embed templates/*
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("pages").ParseFS(
	templatesFS, "templates/*.html", "templates/terms/*.html"))

// editorPageData feeds the editor and embed page templates.
// AcceptedTermsVersion is a number or nil so the page can decide whether to
// prompt; it renders as a JSON value inside the page's script block.
type editorPageData struct {
	Title                string
	Description          string
	URL                  string
	AcceptedTermsVersion any
	LatestTermsVersion   int
}

// renderPage executes a page template, buffering so a render failure can
// still become a clean 500 instead of a half-written page.
func renderPage(
	srv server.Server, w http.ResponseWriter, name string, data any,
) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		srv.Logger.Error("error rendering page",
			"template", name,
			"error", err,
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// acceptedTermsForRequest looks up the requesting session's accepted terms
// version, or nil when it has never accepted any.
func acceptedTermsForRequest(
	srv server.Server, w http.ResponseWriter, r *http.Request,
) (any, error) {
	sessionID, err := srv.Sessions.EnsureSession(w, r)
	if err != nil {
		return nil, err
	}
	version, ok, err := srv.Store.AcceptedTermsVersion(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return version, nil
}

// EditorPageHandler serves the editor. "/" and "/new" open an unsaved
// project; "/{projectId}/{revisionNumber}" opens a confirmed revision.
// Legacy-shape project ids are permanently redirected to the current-shape
// URL, and URLs naming a revision that does not exist bounce to "/new".
func EditorPageHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if r.URL.Path == "/" || r.URL.Path == "/new" {
			accepted, err := acceptedTermsForRequest(srv, w, r)
			if err != nil {
				srv.Logger.Error("error loading terms acceptance",
					append([]interface{}{"error", err}, logArgs...)...)
				http.Error(w, "Internal server error",
					http.StatusInternalServerError)
				return
			}
			renderPage(srv, w, "editor.html", editorPageData{
				AcceptedTermsVersion: accepted,
				LatestTermsVersion:   srv.Config.LatestTermsVersion,
			})
			return
		}

		revisionID, ok := parsePagePath(r.URL.Path, "")
		if !ok {
			http.NotFound(w, r)
			return
		}

		if revisionID.Project.IsLegacy() {
			http.Redirect(w, r, fmt.Sprintf("/%s/%d",
				revisionID.Project.Upgrade(), revisionID.Number),
				http.StatusMovedPermanently)
			return
		}

		revision, err := srv.Store.Get(r.Context(), revisionID)
		if err != nil {
			if errorStatus(err) == http.StatusNotFound {
				http.Redirect(w, r, "/new", http.StatusSeeOther)
				return
			}
			srv.Logger.Error("error loading revision",
				append([]interface{}{"error", err}, logArgs...)...)
			http.Error(w, "Internal server error",
				http.StatusInternalServerError)
			return
		}

		accepted, err := acceptedTermsForRequest(srv, w, r)
		if err != nil {
			srv.Logger.Error("error loading terms acceptance",
				append([]interface{}{"error", err}, logArgs...)...)
			http.Error(w, "Internal server error",
				http.StatusInternalServerError)
			return
		}

		renderPage(srv, w, "editor.html", editorPageData{
			Title:       revision.Title,
			Description: revision.Description,
			URL: fmt.Sprintf("%s/%s/%d", srv.Config.BaseURLWithoutSlash(),
				revisionID.Project, revisionID.Number),
			AcceptedTermsVersion: accepted,
			LatestTermsVersion:   srv.Config.LatestTermsVersion,
		})
	})
}

// EmbedPageHandler serves the read-only embedded viewer at
// "/embed/{projectId}/{revisionNumber}". Unlike the editor, an unknown
// revision still renders so the host page shows the viewer's own error
// state instead of a broken iframe.
func EmbedPageHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		revisionID, ok := parsePagePath(r.URL.Path, "/embed")
		if !ok {
			http.NotFound(w, r)
			return
		}

		if revisionID.Project.IsLegacy() {
			http.Redirect(w, r, fmt.Sprintf("/embed/%s/%d",
				revisionID.Project.Upgrade(), revisionID.Number),
				http.StatusMovedPermanently)
			return
		}

		data := editorPageData{
			LatestTermsVersion: srv.Config.LatestTermsVersion,
		}
		revision, err := srv.Store.Get(r.Context(), revisionID)
		if err == nil {
			data.Title = revision.Title
			data.Description = revision.Description
			data.URL = fmt.Sprintf("%s/embed/%s/%d",
				srv.Config.BaseURLWithoutSlash(),
				revisionID.Project, revisionID.Number)
		} else if errorStatus(err) != http.StatusNotFound {
			srv.Logger.Error("error loading revision",
				"path", r.URL.Path,
				"error", err,
			)
			http.Error(w, "Internal server error",
				http.StatusInternalServerError)
			return
		}

		renderPage(srv, w, "embed.html", data)
	})
}

// TermsPageHandler serves a terms-of-service document at
// "/a/terms/{version}".
func TermsPageHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		segment := strings.TrimPrefix(r.URL.Path, "/a/terms/")
		version, err := strconv.Atoi(segment)
		if err != nil || version < 1 {
			http.NotFound(w, r)
			return
		}

		name := fmt.Sprintf("%d.html", version)
		if pageTemplates.Lookup(name) == nil {
			http.NotFound(w, r)
			return
		}

		renderPage(srv, w, name, nil)
	})
}

// parsePagePath extracts the revision named by a
// "{prefix}/{projectId}/{revisionNumber}" path.
func parsePagePath(path, prefix string) (ids.RevisionID, bool) {
	rest, found := strings.CutPrefix(path, prefix+"/")
	if !found {
		return ids.RevisionID{}, false
	}

	segments := strings.Split(rest, "/")
	if len(segments) != 2 {
		return ids.RevisionID{}, false
	}

	revisionID, err := ids.ParseRevisionID(segments[0], segments[1])
	if err != nil {
		return ids.RevisionID{}, false
	}

	return revisionID, true
}

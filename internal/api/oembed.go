package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/pkg/ids"
)

const (
	defaultOEmbedWidth  = 800
	defaultOEmbedHeight = 400
)

// OEmbedResponse is the oEmbed "rich" payload for an embedded revision.
type OEmbedResponse struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Type         string `json:"type"`
	Version      string `json:"version"`
	Title        string `json:"title"`
	ProviderName string `json:"provider_name"`
	ProviderURL  string `json:"provider_url"`
	HTML         string `json:"html"`
}

// OEmbedHandler resolves a revision page URL into embeddable iframe
// markup. Routed at "GET /oembed?url=...&width=...&height=...". Every way
// the URL can fail to name a confirmed revision reads as not-found, so the
// endpoint cannot be used to probe identifier validity.
func OEmbedHandler(srv server.Server) http.Handler {
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

		width := intParamOrDefault(query.Get("width"), defaultOEmbedWidth)
		height := intParamOrDefault(query.Get("height"), defaultOEmbedHeight)

		revisionID, ok := parseRevisionPageURL(
			query.Get("url"), srv.Config.BaseURL)
		if !ok {
			errResp(srv.Logger, w, http.StatusNotFound,
				"revision not found", nil, logArgs...)
			return
		}

		revision, err := srv.Store.Get(r.Context(), revisionID)
		if err != nil {
			coreErrResp(srv.Logger, w, "revision not found", err, logArgs...)
			return
		}

		baseURL := srv.Config.BaseURLWithoutSlash()
		embedURL := fmt.Sprintf("%s/embed/%s/%d",
			baseURL, revisionID.Project, revisionID.Number)

		respondJSON(srv.Logger, w, http.StatusOK, OEmbedResponse{
			Width:        width,
			Height:       height,
			Type:         "rich",
			Version:      "1.0",
			Title:        revision.Title,
			ProviderName: hostOf(baseURL),
			ProviderURL:  baseURL,
			HTML: fmt.Sprintf(
				`<iframe src="%s" width="%d" height="%d" frameBorder="0" allowtransparency="true"></iframe>`,
				embedURL, width, height),
		})
	})
}

// parseRevisionPageURL extracts the revision a project page URL names,
// accepting only URLs on the configured host.
func parseRevisionPageURL(rawURL, baseURL string) (ids.RevisionID, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" || parsed.Path == "" {
		return ids.RevisionID{}, false
	}
	if parsed.Hostname() != hostOf(baseURL) {
		return ids.RevisionID{}, false
	}

	segments := strings.Split(parsed.Path, "/")
	if len(segments) != 3 || segments[0] != "" {
		return ids.RevisionID{}, false
	}

	revisionID, err := ids.ParseRevisionID(segments[1], segments[2])
	if err != nil {
		return ids.RevisionID{}, false
	}

	return revisionID, true
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// intParamOrDefault parses an optional integer query parameter, falling
// back when it is absent or malformed.
func intParamOrDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

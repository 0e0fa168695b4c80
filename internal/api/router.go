package api

import (
	"net/http"

	"github.com/shoemakerdr/ellie/internal/server"
)

// HealthHandler is the liveness probe. Routed at "GET /health".
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		respondJSON(srv.Logger, w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})
}

// NewRouter wires every handler onto one mux. The editor handler owns "/"
// and dispatches between the blank editor and saved-revision pages itself.
func NewRouter(srv server.Server) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/terms/", TermsAcceptHandler(srv))
	mux.Handle("/api/packages/", PackageVersionsHandler(srv))
	mux.Handle("/api/search", SearchHandler(srv))
	mux.Handle("/api/upload/existing", UploadHandler(srv))
	mux.Handle("/api/revisions/default", DefaultRevisionHandler(srv))
	mux.Handle("/api/revisions/confirm", ConfirmRevisionHandler(srv))
	mux.Handle("/api/format", FormatHandler(srv))

	mux.Handle("/oembed", OEmbedHandler(srv))
	mux.Handle("/embed/", EmbedPageHandler(srv))
	mux.Handle("/a/terms/", TermsPageHandler(srv))
	mux.Handle("/health", HealthHandler(srv))

	mux.Handle("/new", EditorPageHandler(srv))
	mux.Handle("/", EditorPageHandler(srv))

	return mux
}

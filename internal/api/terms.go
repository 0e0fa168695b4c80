package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shoemakerdr/ellie/internal/server"
)

// TermsAcceptHandler records that the requesting session accepted a terms
// version. Routed at "POST /api/terms/{version}/accept".
func TermsAcceptHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		version, ok := parseTermsVersion(r.URL.Path)
		if !ok {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"terms version must be a non-negative integer", nil, logArgs...)
			return
		}

		sessionID, err := srv.Sessions.EnsureSession(w, r)
		if err != nil {
			errResp(srv.Logger, w, http.StatusInternalServerError,
				"Internal server error", err, logArgs...)
			return
		}

		if err := srv.Store.AcceptTerms(r.Context(), sessionID, version); err != nil {
			coreErrResp(srv.Logger, w,
				"error recording terms acceptance", err, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusOK, struct{}{})
	})
}

// parseTermsVersion extracts the version segment from
// "/api/terms/{version}/accept".
func parseTermsVersion(path string) (int, bool) {
	rest, found := strings.CutPrefix(path, "/api/terms/")
	if !found {
		return 0, false
	}
	segment, found := strings.CutSuffix(rest, "/accept")
	if !found || strings.Contains(segment, "/") {
		return 0, false
	}
	version, err := strconv.Atoi(segment)
	if err != nil || version < 0 {
		return 0, false
	}
	return version, true
}

package api

import (
	"errors"
	"net/http"

	"github.com/shoemakerdr/ellie/internal/format"
	"github.com/shoemakerdr/ellie/internal/server"
)

type FormatRequest struct {
	Source *string `json:"source"`
}

type FormatResponse struct {
	Result string `json:"result"`
}

// FormatHandler pretty-prints submitted Elm source. Routed at
// "POST /api/format".
func FormatHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req FormatRequest
		if err := decodeRequest(r, &req); err != nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"request body must be a JSON object", err, logArgs...)
			return
		}
		if req.Source == nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"source attribute is missing, source must be a string",
				nil, logArgs...)
			return
		}

		formatted, err := srv.Formatter.Format(r.Context(), *req.Source)
		if err != nil {
			var srcErr *format.SourceError
			if errors.As(err, &srcErr) {
				errResp(srv.Logger, w, http.StatusBadRequest,
					srcErr.Message, nil, logArgs...)
				return
			}
			errResp(srv.Logger, w, http.StatusInternalServerError,
				"Internal server error", err, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusOK, FormatResponse{
			Result: formatted,
		})
	})
}

package api

import (
	"net/http"
	"strconv"

	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/pkg/ids"
)

// UploadHandler authorizes the next upload for an existing project by
// minting signed credentials for the revision's two artifacts. Routed at
// "GET /api/upload/existing?projectId=...&revisionNumber=...".
func UploadHandler(srv server.Server) http.Handler {
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

		projectIDStr := query.Get("projectId")
		if projectIDStr == "" {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"Required parameter `projectId` was not provided",
				nil, logArgs...)
			return
		}
		projectID, err := ids.ParseProjectID(projectIDStr)
		if err != nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"Unparseable `projectId` parameter", err, logArgs...)
			return
		}

		revisionNumberStr := query.Get("revisionNumber")
		if revisionNumberStr == "" {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"Required parameter `revisionNumber` was not provided",
				nil, logArgs...)
			return
		}
		revisionNumber, err := strconv.Atoi(revisionNumberStr)
		if err != nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"Unparseable `revisionNumber` must be an integer",
				err, logArgs...)
			return
		}
		if revisionNumber < 1 {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"Parameter `revisionNumber` must be positive", nil, logArgs...)
			return
		}

		signatures, err := srv.Uploads.Authorize(
			r.Context(), projectID, revisionNumber)
		if err != nil {
			coreErrResp(srv.Logger, w,
				"Revision `"+projectID.String()+"/"+revisionNumberStr+
					"` cannot be uploaded", err, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusOK, signatures)
	})
}

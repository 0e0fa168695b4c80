package api

import (
	"net/http"

	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/pkg/ids"
	"github.com/shoemakerdr/ellie/pkg/models"
	"github.com/shoemakerdr/ellie/pkg/semver"
)

// defaultElmCode is the program every fresh project starts from.
const defaultElmCode = `module Main exposing (main)

import Html exposing (Html, text)


main : Html msg
main =
    text "Hello, World!"
`

// defaultHTMLCode is the host page every fresh project starts from.
const defaultHTMLCode = `<html>
<head>
  <style>
    /* you can style your program here */
  </style>
</head>
<body>
  <script>
    var app = Elm.Main.fullscreen()
    // you can use ports and stuff here
  </script>
</body>
</html>
`

// DefaultRevisionResponse is the unsaved starting project the editor
// opens with.
type DefaultRevisionResponse struct {
	Packages    []models.Package `json:"packages"`
	ElmVersion  semver.Version   `json:"elmVersion"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ID          *string          `json:"id"`
	ElmCode     string           `json:"elmCode"`
	HTMLCode    string           `json:"htmlCode"`
}

// DefaultRevisionHandler serves the starting project for the configured
// runtime version. Routed at "GET /api/revisions/default".
func DefaultRevisionHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		elmVersion := semver.MustParse(srv.Config.DefaultElmVersion)

		defaults, err := srv.Catalog.Defaults(r.Context(), elmVersion)
		if err != nil {
			coreErrResp(srv.Logger, w,
				"error loading default packages", err, logArgs...)
			return
		}
		if defaults == nil {
			errResp(srv.Logger, w, http.StatusInternalServerError,
				"Could not load default packages", nil, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusOK, DefaultRevisionResponse{
			Packages:   []models.Package{defaults.Core, defaults.HTML},
			ElmVersion: elmVersion,
			ElmCode:    defaultElmCode,
			HTMLCode:   defaultHTMLCode,
		})
	})
}

type ConfirmRevisionRequest struct {
	ProjectID      string `json:"projectId"`
	RevisionNumber *int   `json:"revisionNumber"`
	Title          string `json:"title"`
	Description    string `json:"description"`
}

// ConfirmRevisionHandler makes an uploaded revision durable. Both artifacts
// must already be in object storage; the store then accepts the revision
// only if it is exactly the next number in its project's chain, so two
// clients racing to publish the same number produce one success and one
// conflict. Routed at "POST /api/revisions/confirm".
func ConfirmRevisionHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []any{
			"method", r.Method,
			"path", r.URL.Path,
		}

		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req ConfirmRevisionRequest
		if err := decodeRequest(r, &req); err != nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"request body must be a JSON object", err, logArgs...)
			return
		}

		projectID, err := ids.ParseProjectID(req.ProjectID)
		if err != nil {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"Unparseable `projectId` attribute", err, logArgs...)
			return
		}
		if req.RevisionNumber == nil || *req.RevisionNumber < 0 {
			errResp(srv.Logger, w, http.StatusBadRequest,
				"`revisionNumber` must be a non-negative integer",
				nil, logArgs...)
			return
		}

		id := ids.NewRevisionID(projectID, *req.RevisionNumber)
		snapshotKey := storage.SnapshotKey(id)
		resultKey := storage.ResultKey(id)

		for _, key := range []string{snapshotKey, resultKey} {
			found, err := srv.Storage.ObjectExists(r.Context(), key)
			if err != nil {
				coreErrResp(srv.Logger, w,
					"error checking uploaded artifacts", err, logArgs...)
				return
			}
			if !found {
				errResp(srv.Logger, w, http.StatusBadRequest,
					"Revision artifacts have not been uploaded",
					nil, append([]interface{}{"key", key}, logArgs...)...)
				return
			}
		}

		revision := models.Revision{
			ProjectID:      projectID,
			RevisionNumber: *req.RevisionNumber,
			Title:          req.Title,
			Description:    req.Description,
			SnapshotKey:    snapshotKey,
			ResultKey:      resultKey,
		}
		if err := srv.Store.Confirm(r.Context(), &revision); err != nil {
			coreErrResp(srv.Logger, w,
				"Revision `"+id.String()+"` is not the next in its chain",
				err, logArgs...)
			return
		}

		respondJSON(srv.Logger, w, http.StatusCreated, revision)
	})
}

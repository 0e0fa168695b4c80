package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoemakerdr/ellie/internal/config"
	"github.com/shoemakerdr/ellie/internal/format"
	"github.com/shoemakerdr/ellie/internal/packages"
	"github.com/shoemakerdr/ellie/internal/server"
	"github.com/shoemakerdr/ellie/internal/session"
	"github.com/shoemakerdr/ellie/internal/storage"
	"github.com/shoemakerdr/ellie/internal/store"
	"github.com/shoemakerdr/ellie/internal/uploads"
	"github.com/shoemakerdr/ellie/pkg/database"
	"github.com/shoemakerdr/ellie/pkg/ids"
	"github.com/shoemakerdr/ellie/pkg/models"
)

const testSeedYAML = `packages:
  - username: elm-lang
    project: core
    version: 5.1.1
    elm_version: 0.18.0
  - username: elm-lang
    project: core
    version: 5.0.0
    elm_version: 0.18.0
  - username: elm-lang
    project: html
    version: 2.0.0
    elm_version: 0.18.0
`

// fakeObjectStore satisfies the storage contract without real object
// storage; keys put into objects read as uploaded.
type fakeObjectStore struct {
	objects map[string]bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]bool)}
}

func (f *fakeObjectStore) SignedPutURL(
	_ context.Context, key, _ string,
) (storage.SignedUpload, error) {
	return storage.SignedUpload{
		URL:       "https://objects.test/" + key + "?signature=abc",
		Method:    http.MethodPut,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil
}

func (f *fakeObjectStore) ObjectExists(
	_ context.Context, key string,
) (bool, error) {
	return f.objects[key], nil
}

func (f *fakeObjectStore) putRevisionArtifacts(id ids.RevisionID) {
	f.objects[storage.SnapshotKey(id)] = true
	f.objects[storage.ResultKey(id)] = true
}

// newTestServer assembles a server over sqlite, a seeded catalog, a fake
// object store, and a stand-in formatter script.
func newTestServer(t *testing.T) (server.Server, *fakeObjectStore) {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Path:   "file::memory:",
	}, hclog.NewNullLogger())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))

	revisionStore := store.New(db, hclog.NewNullLogger())

	catalog, err := packages.NewCatalog(db, hclog.NewNullLogger())
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(
		fs, "/seed.yml", []byte(testSeedYAML), 0o644))
	require.NoError(t, catalog.Seed(context.Background(), fs, "/seed.yml"))

	sessions, err := session.NewManager(
		session.Config{Secret: "test-secret"}, true, hclog.NewNullLogger())
	require.NoError(t, err)

	formatterPath := filepath.Join(t.TempDir(), "fake-elm-format")
	script := "#!/bin/sh\n" +
		"head -c 1 >/dev/null\n" +
		"if [ \"$FAKE_FORMAT_FAIL\" = 1 ]; then\n" +
		"  printf 'elm-format --stdin\\n' >&2\n" +
		"  printf 'Unable to parse\\n' >&2\n" +
		"  exit 1\n" +
		"fi\n" +
		"printf 'formatted\\n'\n"
	require.NoError(t, os.WriteFile(formatterPath, []byte(script), 0o755))

	cfg := &config.Config{
		BaseURL:            "https://ellie-app.com",
		ListenAddr:         "127.0.0.1:0",
		LatestTermsVersion: 2,
		DefaultElmVersion:  "0.18.0",
		LogLevel:           "error",
	}

	objects := newFakeObjectStore()

	return server.Server{
		Config:   cfg,
		DB:       db,
		Logger:   hclog.NewNullLogger(),
		Store:    revisionStore,
		Storage:  objects,
		Uploads:  uploads.New(revisionStore, objects, hclog.NewNullLogger()),
		Catalog:  catalog,
		Sessions: sessions,
		Formatter: format.NewFormatter(
			formatterPath, time.Second, hclog.NewNullLogger()),
	}, objects
}

// confirmRevisions appends revisions 0..count-1 to the project.
func confirmRevisions(
	t *testing.T, srv server.Server, project ids.ProjectID, count int,
) {
	t.Helper()
	for n := 0; n < count; n++ {
		id := ids.NewRevisionID(project, n)
		require.NoError(t, srv.Store.Confirm(context.Background(), &models.Revision{
			ProjectID:      project,
			RevisionNumber: n,
			Title:          fmt.Sprintf("Revision %d", n),
			Description:    "A test revision",
			SnapshotKey:    storage.SnapshotKey(id),
			ResultKey:      storage.ResultKey(id),
		}))
	}
}

func doRequest(
	srv server.Server, method, target, body string,
) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	NewRouter(srv).ServeHTTP(w, r)
	return w
}

func TestTermsAcceptEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("RecordsAcceptanceForSession", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/terms/2/accept", "")
		require.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		sessionID, err := srv.Sessions.Verify(cookies[0].Value)
		require.NoError(t, err)

		version, ok, err := srv.Store.AcceptedTermsVersion(
			context.Background(), sessionID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, version)
	})

	t.Run("RejectsMalformedVersion", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/terms/two/accept", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RejectsGet", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/terms/2/accept", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestPackageVersionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("ListsVersionsAscending", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/packages/0.18.0/elm-lang/core/versions", "")
		require.Equal(t, http.StatusOK, w.Code)

		var versions []string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &versions))
		assert.Equal(t, []string{"5.0.0", "5.1.1"}, versions)
	})

	t.Run("UnknownPackageIs404", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/packages/0.18.0/elm-lang/nope/versions", "")
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Package not found", resp.Message)
	})

	t.Run("MalformedElmVersionIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/packages/v0.18/elm-lang/core/versions", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("FindsPackages", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/search?query=html&elmVersion=0.18.0", "")
		require.Equal(t, http.StatusOK, w.Code)

		var results []models.Package
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "html", results[0].Project)
	})

	t.Run("MissingQueryIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/search?elmVersion=0.18.0", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MalformedElmVersionIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/search?query=html&elmVersion=latest", "")
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t,
			"elm version must be a semver string like 0.18.0", resp.Message)
	})
}

func TestUploadEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	project := ids.MustParseProjectID("0A1b2C3d4E5f")
	confirmRevisions(t, srv, project, 2)

	t.Run("AuthorizesNextRevision", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/upload/existing?projectId=0A1b2C3d4E5f&revisionNumber=2", "")
		require.Equal(t, http.StatusOK, w.Code)

		var signed uploads.SignedUploads
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signed))
		assert.Contains(t, signed.Revision.URL, "revisions/0A1b2C3d4E5f/2.json")
		assert.Contains(t, signed.Result.URL, "revisions/0A1b2C3d4E5f/2.html")
		assert.Equal(t, http.MethodPut, signed.Revision.Method)
	})

	t.Run("SkippingAheadIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/upload/existing?projectId=0A1b2C3d4E5f&revisionNumber=5", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingProjectIDIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/upload/existing?revisionNumber=2", "")
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t,
			"Required parameter `projectId` was not provided", resp.Message)
	})

	t.Run("UnparseableProjectIDIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/upload/existing?projectId=nope&revisionNumber=2", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonPositiveRevisionNumberIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/upload/existing?projectId=0A1b2C3d4E5f&revisionNumber=0", "")
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t,
			"Parameter `revisionNumber` must be positive", resp.Message)
	})

	t.Run("UnparseableRevisionNumberIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/api/upload/existing?projectId=0A1b2C3d4E5f&revisionNumber=two", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConfirmRevisionEndpoint(t *testing.T) {
	srv, objects := newTestServer(t)
	project := ids.MustParseProjectID("0A1b2C3d4E5f")

	t.Run("ConfirmsFirstRevision", func(t *testing.T) {
		objects.putRevisionArtifacts(ids.NewRevisionID(project, 0))

		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "0A1b2C3d4E5f", "revisionNumber": 0,
			  "title": "First", "description": "A saved project"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp models.Revision
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.RevisionNumber)
		assert.Equal(t, "First", resp.Title)

		saved, err := srv.Store.Get(
			context.Background(), ids.NewRevisionID(project, 0))
		require.NoError(t, err)
		assert.Equal(t, "First", saved.Title)
	})

	t.Run("MissingArtifactsIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "0A1b2C3d4E5f", "revisionNumber": 1, "title": "Next"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t,
			"Revision artifacts have not been uploaded", resp.Message)
	})

	t.Run("SkippingAheadIs409", func(t *testing.T) {
		objects.putRevisionArtifacts(ids.NewRevisionID(project, 5))

		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "0A1b2C3d4E5f", "revisionNumber": 5, "title": "Gap"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("DuplicateConfirmIs409", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "0A1b2C3d4E5f", "revisionNumber": 0, "title": "Again"}`)
		require.Equal(t, http.StatusConflict, w.Code)

		saved, err := srv.Store.Get(
			context.Background(), ids.NewRevisionID(project, 0))
		require.NoError(t, err)
		assert.Equal(t, "First", saved.Title)
	})

	t.Run("UnparseableProjectIDIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "nope", "revisionNumber": 0}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Unparseable `projectId` attribute", resp.Message)
	})

	t.Run("MissingRevisionNumberIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "0A1b2C3d4E5f"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NegativeRevisionNumberIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`{"projectId": "0A1b2C3d4E5f", "revisionNumber": -1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MalformedBodyIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/revisions/confirm",
			`not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RejectsGet", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/api/revisions/confirm", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestDefaultRevisionEndpoint(t *testing.T) {
	t.Run("ServesBootstrapProject", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := doRequest(srv, http.MethodGet, "/api/revisions/default", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp DefaultRevisionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Packages, 2)
		assert.Equal(t, "core", resp.Packages[0].Project)
		assert.Equal(t, "html", resp.Packages[1].Project)
		assert.Nil(t, resp.ID)
		assert.Contains(t, resp.ElmCode, `text "Hello, World!"`)
		assert.Contains(t, resp.HTMLCode, "Elm.Main.fullscreen()")
	})

	t.Run("FatalWithoutDefaultPackages", func(t *testing.T) {
		srv, _ := newTestServer(t)
		require.NoError(t,
			srv.DB.Where("1 = 1").Delete(&models.Package{}).Error)

		w := doRequest(srv, http.MethodGet, "/api/revisions/default", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Could not load default packages", resp.Message)
	})
}

func TestFormatEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("FormatsSource", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/format",
			`{"source": "module Main exposing (main)"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp FormatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "formatted\n", resp.Result)
	})

	t.Run("MissingSourceIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/format", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t,
			"source attribute is missing, source must be a string",
			resp.Message)
	})

	t.Run("RejectedSourceCarriesDiagnostic", func(t *testing.T) {
		t.Setenv("FAKE_FORMAT_FAIL", "1")

		w := doRequest(srv, http.MethodPost, "/api/format",
			`{"source": "garbage"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp apiError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "Unable to parse")
	})

	t.Run("MalformedBodyIs400", func(t *testing.T) {
		w := doRequest(srv, http.MethodPost, "/api/format", `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOEmbedEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	project := ids.MustParseProjectID("0A1b2C3d4E5f")
	confirmRevisions(t, srv, project, 1)

	t.Run("ResolvesRevisionURL", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/oembed?url=https://ellie-app.com/0A1b2C3d4E5f/0&width=600&height=300", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp OEmbedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 600, resp.Width)
		assert.Equal(t, 300, resp.Height)
		assert.Equal(t, "rich", resp.Type)
		assert.Equal(t, "Revision 0", resp.Title)
		assert.Equal(t, "ellie-app.com", resp.ProviderName)
		assert.Contains(t, resp.HTML,
			`src="https://ellie-app.com/embed/0A1b2C3d4E5f/0"`)
		assert.Contains(t, resp.HTML, `width="600"`)
	})

	t.Run("DefaultsDimensions", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/oembed?url=https://ellie-app.com/0A1b2C3d4E5f/0", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp OEmbedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 800, resp.Width)
		assert.Equal(t, 400, resp.Height)
	})

	t.Run("ForeignHostIs404", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/oembed?url=https://example.com/0A1b2C3d4E5f/0", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UnknownRevisionIs404", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/oembed?url=https://ellie-app.com/0A1b2C3d4E5f/7", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MalformedURLIs404", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet,
			"/oembed?url=https://ellie-app.com/not/a/revision/url", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEditorPages(t *testing.T) {
	srv, _ := newTestServer(t)
	project := ids.MustParseProjectID("0A1b2C3d4E5f")
	confirmRevisions(t, srv, project, 1)

	t.Run("NewProjectPage", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/new", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Regexp(t, `latestTermsVersion:\s*2`, w.Body.String())
		assert.Regexp(t, `acceptedTermsVersion:\s*null`, w.Body.String())
	})

	t.Run("RootServesNewProjectPage", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<title>Ellie</title>")
	})

	t.Run("SavedRevisionPage", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/0A1b2C3d4E5f/0", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Revision 0 - Ellie")
		assert.Contains(t, w.Body.String(),
			"https://ellie-app.com/0A1b2C3d4E5f/0")
	})

	t.Run("LegacyProjectIDRedirectsPermanently", func(t *testing.T) {
		legacy := ids.MustParseProjectID("00c0ffee00c0ffee")
		w := doRequest(srv, http.MethodGet, "/00c0ffee00c0ffee/0", "")
		require.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t,
			"/"+legacy.Upgrade().String()+"/0",
			w.Header().Get("Location"))
	})

	t.Run("MissingRevisionBouncesToNew", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/0A1b2C3d4E5f/9", "")
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/new", w.Header().Get("Location"))
	})

	t.Run("UnroutablePathIs404", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/not/a/real/page", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmbedPages(t *testing.T) {
	srv, _ := newTestServer(t)
	project := ids.MustParseProjectID("0A1b2C3d4E5f")
	confirmRevisions(t, srv, project, 1)

	t.Run("RendersSavedRevision", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/embed/0A1b2C3d4E5f/0", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Revision 0 - Ellie")
	})

	t.Run("LegacyProjectIDRedirectsPermanently", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/embed/00c0ffee00c0ffee/0", "")
		require.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/embed/")
	})

	t.Run("UnknownRevisionStillRenders", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/embed/0A1b2C3d4E5f/9", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<title>Ellie</title>")
	})
}

func TestTermsPage(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("ServesKnownVersion", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/a/terms/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Terms of Service")
	})

	t.Run("UnknownVersionIs404", func(t *testing.T) {
		w := doRequest(srv, http.MethodGet, "/a/terms/9", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

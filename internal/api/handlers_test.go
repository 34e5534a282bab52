package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citeworks/citeforge/internal/catalog"
	"github.com/citeworks/citeforge/internal/config"
	"github.com/citeworks/citeforge/internal/database"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	svc := catalog.NewService(cfg, store)
	return NewRouter(cfg, svc, "test")
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func bookPayload() map[string]interface{} {
	return map[string]interface{}{
		"type":      "book",
		"title":     "The Go Programming Language",
		"authors":   []string{"Alan Donovan", "Brian Kernighan"},
		"year":      2015,
		"publisher": "Addison-Wesley",
		"place":     "New York",
	}
}

func createProject(t *testing.T, h http.Handler, name string) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/projects", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code)
	var p struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &p)
	require.NotEmpty(t, p.ID)
	return p.ID
}

func createCitation(t *testing.T, h http.Handler, projectID string, payload map[string]interface{}) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/projects/"+projectID+"/citations", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &c)
	require.NotEmpty(t, c.ID)
	return c.ID
}

func TestRoot(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "citeforge", body["name"])
	assert.Equal(t, "test", body["version"])
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status           string   `json:"status"`
		SupportedFormats []string `json:"supported_formats"`
		CitationTypes    []string `json:"citation_types"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, []string{"apa", "mla"}, body.SupportedFormats)
	assert.Equal(t, []string{"book", "article", "website", "report"}, body.CitationTypes)
}

func TestAPIInfo(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/info", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "endpoints")
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProjectLifecycle(t *testing.T) {
	h := newTestRouter(t)

	id := createProject(t, h, "thesis")

	rec := doRequest(t, h, http.MethodGet, "/projects", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "thesis", list[0]["name"])

	rec = doRequest(t, h, http.MethodPut, "/projects/"+id, map[string]string{"name": "dissertation"})
	assert.Equal(t, http.StatusOK, rec.Code)
	var renamed map[string]interface{}
	decodeBody(t, rec, &renamed)
	assert.Equal(t, "dissertation", renamed["name"])

	rec = doRequest(t, h, http.MethodDelete, "/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project deleted")

	rec = doRequest(t, h, http.MethodGet, "/projects/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project not found")
}

func TestListProjects_Empty(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/projects", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateProject_Conflict(t *testing.T) {
	h := newTestRouter(t)
	createProject(t, h, "thesis")

	rec := doRequest(t, h, http.MethodPost, "/projects", map[string]string{"name": "thesis"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestCreateProject_EmptyName(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/projects", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project name is required")
}

func TestCreateProject_MalformedBody(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestCreateCitation(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")

	rec := doRequest(t, h, http.MethodPost, "/projects/"+projectID+"/citations", bookPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var c map[string]interface{}
	decodeBody(t, rec, &c)
	assert.NotEmpty(t, c["id"])
	assert.Equal(t, "book", c["type"])
	assert.Equal(t, float64(2015), c["year"])

	// Fields outside the book schema are omitted from the response.
	assert.NotContains(t, rec.Body.String(), "journal")
}

func TestCreateCitation_UnknownYearEchoesNull(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")

	payload := bookPayload()
	payload["year"] = nil
	rec := doRequest(t, h, http.MethodPost, "/projects/"+projectID+"/citations", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"year":null`)
}

func TestCreateCitation_ValidationDetails(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")

	payload := map[string]interface{}{
		"type":    "book",
		"title":   "Incomplete",
		"journal": "Nope",
	}
	rec := doRequest(t, h, http.MethodPost, "/projects/"+projectID+"/citations", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error   string `json:"error"`
		Details struct {
			Missing []string `json:"missing"`
			Invalid []string `json:"invalid"`
		} `json:"details"`
	}
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, []string{"authors", "year", "publisher", "place"}, body.Details.Missing)
	assert.Equal(t, []string{"journal"}, body.Details.Invalid)
}

func TestCreateCitation_Duplicate(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodPost, "/projects/"+projectID+"/citations", bookPayload())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "identical citation already exists")
}

func TestCreateCitation_ProjectMissing(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/projects/missing/citations", bookPayload())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project not found")
}

func TestGetCitation_NotFound(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/citations/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Citation not found")
}

func TestUpdateCitation(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	citationID := createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodPut, "/projects/"+projectID+"/citations/"+citationID,
		map[string]interface{}{"edition": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var c map[string]interface{}
	decodeBody(t, rec, &c)
	assert.Equal(t, float64(2), c["edition"])
}

func TestUpdateCitation_NotInProject(t *testing.T) {
	h := newTestRouter(t)
	p1 := createProject(t, h, "thesis")
	p2 := createProject(t, h, "articles")
	citationID := createCitation(t, h, p2, bookPayload())

	rec := doRequest(t, h, http.MethodPut, "/projects/"+p1+"/citations/"+citationID,
		map[string]interface{}{"edition": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Citation not found in this project")
}

func TestDeleteCitation(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	citationID := createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodDelete, "/projects/"+projectID+"/citations/"+citationID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Citation deleted")

	rec = doRequest(t, h, http.MethodGet, "/citations/"+citationID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProjectCitations(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/projects/"+projectID+"/citations", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]interface{}
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "The Go Programming Language", list[0]["title"])
}

func TestFormatCitation(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	citationID := createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/citations/"+citationID+"/format?format_type=apa", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CitationID string `json:"citation_id"`
		FormatType string `json:"format_type"`
		Formatted  string `json:"formatted_citation"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, citationID, body.CitationID)
	assert.Equal(t, "apa", body.FormatType)
	assert.Equal(t, "Donovan, A., & Kernighan, B. (2015). <i>The go programming language</i>. Addison-Wesley.", body.Formatted)

	// Style lookup is case-insensitive and echoes the normalized name.
	rec = doRequest(t, h, http.MethodGet, "/citations/"+citationID+"/format?format_type=MLA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, "mla", body.FormatType)
}

func TestFormatCitation_PlainMarkup(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	citationID := createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/citations/"+citationID+"/format?format_type=apa&markup=plain", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Formatted string `json:"formatted_citation"`
	}
	decodeBody(t, rec, &body)
	assert.NotContains(t, body.Formatted, "<i>")
	assert.Contains(t, body.Formatted, "The go programming language")
}

func TestFormatCitation_BadMarkup(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	citationID := createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/citations/"+citationID+"/format?markup=latex", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "markup")
}

func TestFormatCitation_UnsupportedStyle(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	citationID := createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/citations/"+citationID+"/format?format_type=chicago", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported format")
}

func TestBibliography(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/projects/"+projectID+"/bibliography?format_type=mla", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ProjectID     string   `json:"project_id"`
		FormatType    string   `json:"format_type"`
		Entries       []string `json:"bibliography"`
		CitationCount int      `json:"citation_count"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, projectID, body.ProjectID)
	assert.Equal(t, "mla", body.FormatType)
	assert.Equal(t, 1, body.CitationCount)
	require.Len(t, body.Entries, 1)
	assert.Contains(t, body.Entries[0], "Donovan, Alan, and Brian Kernighan")
}

func TestBibliography_EmptyProject(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")

	rec := doRequest(t, h, http.MethodGet, "/projects/"+projectID+"/bibliography", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bibliography":[]`)
}

func TestBibliography_PlainMarkup(t *testing.T) {
	h := newTestRouter(t)
	projectID := createProject(t, h, "thesis")
	createCitation(t, h, projectID, bookPayload())

	rec := doRequest(t, h, http.MethodGet, "/projects/"+projectID+"/bibliography?markup=plain", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []string `json:"bibliography"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Entries, 1)
	assert.NotContains(t, body.Entries[0], "<i>")
	assert.Contains(t, body.Entries[0], "The Go Programming Language")
}

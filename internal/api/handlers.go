// Package api provides HTTP API handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/citeworks/citeforge/internal/catalog"
	"github.com/citeworks/citeforge/internal/citation"
	"github.com/citeworks/citeforge/internal/markup"
	"github.com/citeworks/citeforge/internal/models"
)

// Handler contains all HTTP handlers.
type Handler struct {
	svc     *catalog.Service
	version string
}

// NewHandler creates a new handler.
func NewHandler(svc *catalog.Service, version string) *Handler {
	return &Handler{
		svc:     svc,
		version: version,
	}
}

// Root returns the service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "citeforge",
		"status":  "healthy",
		"version": h.version,
	})
}

// HealthCheck returns the service health status and capabilities.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "healthy",
		"database":          "connected",
		"version":           h.version,
		"supported_formats": styleNames(),
		"citation_types":    kindNames(),
	})
}

// APIInfo describes the available endpoints.
func (h *Handler) APIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":              "citeforge",
		"version":           h.version,
		"supported_formats": styleNames(),
		"citation_types":    kindNames(),
		"endpoints": map[string]interface{}{
			"projects": map[string]string{
				"create": "POST /projects",
				"list":   "GET /projects",
				"get":    "GET /projects/{projectID}",
				"rename": "PUT /projects/{projectID}",
				"delete": "DELETE /projects/{projectID}",
			},
			"citations": map[string]string{
				"create":          "POST /projects/{projectID}/citations",
				"get":             "GET /citations/{citationID}",
				"update":          "PUT /projects/{projectID}/citations/{citationID}",
				"delete":          "DELETE /projects/{projectID}/citations/{citationID}",
				"list_by_project": "GET /projects/{projectID}/citations",
			},
			"formatting": map[string]string{
				"format_citation":       "GET /citations/{citationID}/format?format_type={apa|mla}",
				"generate_bibliography": "GET /projects/{projectID}/bibliography?format_type={apa|mla}",
			},
		},
	})
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.svc.CreateProject(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	writeJSON(w, http.StatusOK, projects)
}

// GetProject returns a single project by ID.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.svc.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// UpdateProject renames a project.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.svc.RenameProject(r.Context(), chi.URLParam(r, "projectID"), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project and any citations left orphaned.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

// CreateCitation validates a raw citation payload and adds it to a
// project.
func (h *Handler) CreateCitation(w http.ResponseWriter, r *http.Request) {
	var in citation.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.svc.AddCitation(r.Context(), chi.URLParam(r, "projectID"), in)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// GetCitation returns a single citation by ID.
func (h *Handler) GetCitation(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCitation(r.Context(), chi.URLParam(r, "citationID"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// ListProjectCitations returns every citation in a project, in link
// order.
func (h *Handler) ListProjectCitations(w http.ResponseWriter, r *http.Request) {
	citations, err := h.svc.ProjectCitations(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, err)
		return
	}
	if citations == nil {
		citations = []*models.Citation{}
	}

	writeJSON(w, http.StatusOK, citations)
}

// UpdateCitation applies a partial update to a citation within a
// project.
func (h *Handler) UpdateCitation(w http.ResponseWriter, r *http.Request) {
	var in citation.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.svc.UpdateCitation(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "citationID"), in)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// DeleteCitation removes a citation from a project.
func (h *Handler) DeleteCitation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveCitation(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "citationID")); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Citation deleted"})
}

// FormatCitation renders a single citation in the requested style.
func (h *Handler) FormatCitation(w http.ResponseWriter, r *http.Request) {
	plain, ok := parseMarkup(w, r)
	if !ok {
		return
	}

	fc, err := h.svc.FormatCitation(r.Context(), chi.URLParam(r, "citationID"), r.URL.Query().Get("format_type"))
	if err != nil {
		respondError(w, err)
		return
	}
	if plain {
		fc.Formatted = markup.Strip(fc.Formatted)
	}

	writeJSON(w, http.StatusOK, fc)
}

// Bibliography renders every citation in a project.
func (h *Handler) Bibliography(w http.ResponseWriter, r *http.Request) {
	plain, ok := parseMarkup(w, r)
	if !ok {
		return
	}

	bib, err := h.svc.Bibliography(r.Context(), chi.URLParam(r, "projectID"), r.URL.Query().Get("format_type"))
	if err != nil {
		respondError(w, err)
		return
	}
	if plain {
		bib.Entries = markup.StripAll(bib.Entries)
	}

	writeJSON(w, http.StatusOK, bib)
}

// parseMarkup reads the markup query parameter. Renderings carry inline
// HTML italics unless the client asks for plain text.
func parseMarkup(w http.ResponseWriter, r *http.Request) (plain, ok bool) {
	switch r.URL.Query().Get("markup") {
	case "", "html":
		return false, true
	case "plain":
		return true, true
	default:
		writeError(w, http.StatusBadRequest, `markup must be "html" or "plain"`)
		return false, false
	}
}

// respondError maps catalog errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	var verr *citation.ValidationError
	if errors.As(err, &verr) {
		log.Debug().Err(err).Msg("Validation failed")
		writeValidationError(w, verr)
		return
	}

	var status int
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrInvalid):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Debug().Err(err).Msg("Request rejected")
	writeError(w, status, err.Error())
}

// writeValidationError returns the full problem report so a client can
// fix every field in one round trip. Empty groups are omitted.
func writeValidationError(w http.ResponseWriter, verr *citation.ValidationError) {
	details := map[string]interface{}{}
	if len(verr.Missing) > 0 {
		details["missing"] = verr.Missing
	}
	if len(verr.Invalid) > 0 {
		details["invalid"] = verr.Invalid
	}
	if len(verr.KindChange) > 0 {
		details["kind_change"] = verr.KindChange
	}
	if len(verr.Fields) > 0 {
		details["fields"] = verr.Fields
	}

	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   verr.Error(),
		"details": details,
	})
}

func styleNames() []string {
	styles := models.Styles()
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = string(s)
	}
	return out
}

func kindNames() []string {
	kinds := models.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

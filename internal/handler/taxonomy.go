package handler

import (
	"net/http"
	"time"

	"github.com/notageng/backend/internal/middleware"
)

// subjectResponse is one row in GET /subjects, for the editor's subject picker.
type subjectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// tagResponse is one row in GET /tags, for the editor's tag suggestions.
type tagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSubjects handles GET /subjects. Requires a session.
func (s *Server) ListSubjects(w http.ResponseWriter, r *http.Request) {
	if !middleware.IdentityFrom(r.Context()).Authenticated() {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	subjects, err := s.taxonomy.ListSubjects(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]subjectResponse, len(subjects))
	for i, subj := range subjects {
		out[i] = subjectResponse{
			ID:        subj.ID.String(),
			Name:      subj.Name,
			Slug:      subj.Slug,
			CreatedAt: subj.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// ListTags handles GET /tags. Requires a session.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	if !middleware.IdentityFrom(r.Context()).Authenticated() {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	tags, err := s.taxonomy.ListTags(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]tagResponse, len(tags))
	for i, t := range tags {
		out[i] = tagResponse{ID: t.ID.String(), Name: t.Name, CreatedAt: t.CreatedAt}
	}
	respondJSON(w, http.StatusOK, out)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/notageng/backend/internal/domain"
	"github.com/notageng/backend/internal/middleware"
	"github.com/notageng/backend/internal/service"
)

// excerptLength is how many runes of content note cards show before truncating.
const excerptLength = 100

// noteRequest is the JSON body for POST /notes and PUT /notes/{slug}.
type noteRequest struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content"`
	Subject    string   `json:"subject"`
	Visibility string   `json:"visibility" validate:"required,oneof=private shared"`
	Tags       []string `json:"tags"`
}

// noteSummary is one row in a list view: enough for a note card, not the
// full content.
type noteSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt"`
	Visibility string    `json:"visibility"`
	Subject    string    `json:"subject,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// noteDetail is the full note representation for the detail and write
// endpoints: raw markdown plus the rendered HTML, subject, and tags.
type noteDetail struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	HTML       string    `json:"html"`
	Slug       string    `json:"slug"`
	Visibility string    `json:"visibility"`
	Subject    string    `json:"subject,omitempty"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// pagination echoes the resolved page parameters back to the client.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// noteListResponse is the body for GET /notes.
type noteListResponse struct {
	Data       []noteSummary `json:"data"`
	Pagination pagination    `json:"pagination"`
}

// dashboardResponse is the body for GET /dashboard.
type dashboardResponse struct {
	Recent []noteSummary `json:"recent"`
}

// CreateNote handles POST /notes. Requires a session; anonymous viewers get 401.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFrom(r.Context())

	in, ok := s.decodeNoteRequest(w, r)
	if !ok {
		return
	}

	created, err := s.notes.Create(r.Context(), viewer, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.respondNoteDetail(w, r, http.StatusCreated, created)
}

// GetNote handles GET /notes/{slug}. Public: shared notes render for anyone,
// private notes only for their author — everyone else gets 404.
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFrom(r.Context())

	note, err := s.notes.GetBySlug(r.Context(), viewer, chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.respondNoteDetail(w, r, http.StatusOK, note)
}

// UpdateNote handles PUT /notes/{slug}. Owner only; others get 404.
func (s *Server) UpdateNote(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFrom(r.Context())

	in, ok := s.decodeNoteRequest(w, r)
	if !ok {
		return
	}

	updated, err := s.notes.Update(r.Context(), viewer, chi.URLParam(r, "slug"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.respondNoteDetail(w, r, http.StatusOK, updated)
}

// DeleteNote handles DELETE /notes/{slug}. Owner only; others get 404.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFrom(r.Context())

	if err := s.notes.Delete(r.Context(), viewer, chi.URLParam(r, "slug")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /notes: the viewer's own notes plus everyone's shared
// notes, newest first. Requires a session.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFrom(r.Context())
	if !viewer.Authenticated() {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	notes, total, err := s.notes.ListVisible(r.Context(), viewer, params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	data := make([]noteSummary, len(notes))
	for i, n := range notes {
		data[i] = summarize(n)
	}
	respondJSON(w, http.StatusOK, noteListResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetDashboard handles GET /dashboard: the viewer's three newest notes.
// Requires a session.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.IdentityFrom(r.Context())

	notes, err := s.notes.ListRecent(r.Context(), viewer)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	recent := make([]noteSummary, len(notes))
	for i, n := range notes {
		recent[i] = summarize(n)
	}
	respondJSON(w, http.StatusOK, dashboardResponse{Recent: recent})
}

// decodeNoteRequest parses and validates the note payload shared by create
// and update, writing the error response itself on failure.
func (s *Server) decodeNoteRequest(w http.ResponseWriter, r *http.Request) (service.NoteInput, bool) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return service.NoteInput{}, false
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
		return service.NoteInput{}, false
	}

	return service.NoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Subject:    req.Subject,
		Visibility: domain.Visibility(req.Visibility),
		Tags:       req.Tags,
	}, true
}

// validationMessage turns the first validator.FieldError into a short
// human-readable message, e.g. "title is required".
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			return field + " is required"
		}
		return field + " is invalid"
	}
	return err.Error()
}

// respondNoteDetail fetches the note's tags and writes the full detail body.
// Tags are fetched only after read authorization has already passed.
func (s *Server) respondNoteDetail(w http.ResponseWriter, r *http.Request, status int, note domain.Note) {
	tags, err := s.taxonomy.TagsForNote(r.Context(), note.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}

	respondJSON(w, status, noteDetail{
		ID:         note.ID.String(),
		Title:      note.Title,
		Content:    note.Content,
		HTML:       renderMarkdown(note.Content),
		Slug:       note.Slug,
		Visibility: string(note.Visibility),
		Subject:    note.SubjectName,
		Tags:       names,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	})
}

// summarize maps a note to its list-card representation.
func summarize(n domain.Note) noteSummary {
	return noteSummary{
		ID:         n.ID.String(),
		Title:      n.Title,
		Slug:       n.Slug,
		Excerpt:    n.Excerpt(excerptLength),
		Visibility: string(n.Visibility),
		Subject:    n.SubjectName,
		CreatedAt:  n.CreatedAt,
	}
}

// queryInt parses an integer query parameter, returning nil when absent or
// malformed so pagination falls back to defaults.
func queryInt(r *http.Request, key string) *int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

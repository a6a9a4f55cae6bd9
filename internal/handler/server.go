// Package handler implements the HTTP handlers for the NotaGeng API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, note.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/notageng/backend/internal/domain"
	"github.com/notageng/backend/internal/service"
)

// NoteServicer defines the business operations the note handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type NoteServicer interface {
	Create(ctx context.Context, viewer domain.Identity, in service.NoteInput) (domain.Note, error)
	GetBySlug(ctx context.Context, viewer domain.Identity, slug string) (domain.Note, error)
	Update(ctx context.Context, viewer domain.Identity, slug string, in service.NoteInput) (domain.Note, error)
	Delete(ctx context.Context, viewer domain.Identity, slug string) error
	ListVisible(ctx context.Context, viewer domain.Identity, p domain.PaginationParams) ([]domain.Note, int64, error)
	ListRecent(ctx context.Context, viewer domain.Identity) ([]domain.Note, error)
}

// TaxonomyServicer defines the subject/tag operations the handlers depend on.
type TaxonomyServicer interface {
	TagsForNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error)
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

// Server holds the dependencies shared by all API endpoints.
type Server struct {
	notes    NoteServicer
	taxonomy TaxonomyServicer
	validate *validator.Validate

	authLoginURL    string
	authRegisterURL string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(notes NoteServicer, taxonomy TaxonomyServicer, authLoginURL, authRegisterURL string) *Server {
	return &Server{
		notes:           notes,
		taxonomy:        taxonomy,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		authLoginURL:    authLoginURL,
		authRegisterURL: authRegisterURL,
	}
}

// Routes returns the chi router for the full API surface. The identity
// middleware must already be installed on the parent router — every handler
// reads the viewer identity from the request context.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/login", s.Login)
	r.Get("/register", s.Register)

	r.Get("/dashboard", s.GetDashboard)

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", s.ListNotes)
		r.Post("/", s.CreateNote)
		r.Get("/{slug}", s.GetNote)
		r.Put("/{slug}", s.UpdateNote)
		r.Delete("/{slug}", s.DeleteNote)
	})

	r.Get("/subjects", s.ListSubjects)
	r.Get("/tags", s.ListTags)

	return r
}

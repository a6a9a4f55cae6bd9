package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/notageng/backend/internal/domain"
	"github.com/notageng/backend/internal/repo"
	"github.com/notageng/backend/internal/slug"
)

// dashboardRecentLimit is how many of the viewer's newest notes the dashboard shows.
const dashboardRecentLimit = 3

// NoteInput carries the editable fields of a note as submitted by the editor
// form: a title, markdown content, an optional free-text subject name, a
// visibility, and the full tag list.
type NoteInput struct {
	Title      string
	Content    string
	Subject    string
	Visibility domain.Visibility
	Tags       []string
}

// NoteService implements the note lifecycle: slug assignment on create and
// title change, visibility-based read authorization, owner-only writes, and
// taxonomy application.
type NoteService struct {
	notes    repo.NoteRepo
	taxonomy *TaxonomyService
}

// NewNoteService constructs a NoteService backed by the provided note repo
// and taxonomy service.
func NewNoteService(notes repo.NoteRepo, taxonomy *TaxonomyService) *NoteService {
	return &NoteService{notes: notes, taxonomy: taxonomy}
}

// Create validates and persists a new note for the viewer, assigning a unique
// slug derived from the title and applying the submitted subject and tags.
func (s *NoteService) Create(ctx context.Context, viewer domain.Identity, in NoteInput) (domain.Note, error) {
	if !viewer.Authenticated() {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", domain.ErrUnauthenticated)
	}
	if err := validateInput(in); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	subjectID, err := s.taxonomy.UpsertSubject(ctx, in.Subject, viewer.UserID)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	noteSlug, err := slug.Unique(ctx, slug.Make(in.Title), s.notes.SlugExists)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	created, err := s.notes.Create(ctx, domain.Note{
		Title:      in.Title,
		Content:    in.Content,
		Slug:       noteSlug,
		Visibility: in.Visibility,
		AuthorID:   viewer.UserID,
		SubjectID:  subjectID,
	})
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	if err := s.taxonomy.ApplyTags(ctx, created.ID, in.Tags); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	return created, nil
}

// GetBySlug fetches a note by slug and applies the read policy. A note that
// does not exist and a note the viewer may not see produce the identical
// ErrNotFound — callers cannot probe for the existence of private notes.
func (s *NoteService) GetBySlug(ctx context.Context, viewer domain.Identity, noteSlug string) (domain.Note, error) {
	note, err := s.notes.GetBySlug(ctx, noteSlug)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.GetBySlug: %w", err)
	}
	if !viewer.CanRead(note) {
		return domain.Note{}, fmt.Errorf("service.NoteService.GetBySlug: %w", domain.ErrNotFound)
	}
	return note, nil
}

// Update overwrites a note's editable fields. Only the author may update;
// non-owners get the same ErrNotFound as a missing slug. The slug is
// regenerated only when the normalized new title differs from the current
// slug, so re-saving an unchanged title never breaks existing links.
func (s *NoteService) Update(ctx context.Context, viewer domain.Identity, noteSlug string, in NoteInput) (domain.Note, error) {
	note, err := s.notes.GetBySlug(ctx, noteSlug)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}
	if !viewer.CanWrite(note) {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", domain.ErrNotFound)
	}
	if err := validateInput(in); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}

	subjectID, err := s.taxonomy.UpsertSubject(ctx, in.Subject, viewer.UserID)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}

	newSlug := note.Slug
	if base := slug.Make(in.Title); base != "" && base != note.Slug {
		newSlug, err = slug.Unique(ctx, base, s.notes.SlugExists)
		if err != nil {
			return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
		}
	}

	note.Title = in.Title
	note.Content = in.Content
	note.Slug = newSlug
	note.Visibility = in.Visibility
	note.SubjectID = subjectID

	updated, err := s.notes.Update(ctx, note)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}

	if err := s.taxonomy.ApplyTags(ctx, updated.ID, in.Tags); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}

	return updated, nil
}

// Delete hard-deletes a note. Only the author may delete; non-owners get
// ErrNotFound. Tag association rows are removed with the note.
func (s *NoteService) Delete(ctx context.Context, viewer domain.Identity, noteSlug string) error {
	note, err := s.notes.GetBySlug(ctx, noteSlug)
	if err != nil {
		return fmt.Errorf("service.NoteService.Delete: %w", err)
	}
	if !viewer.CanWrite(note) {
		return fmt.Errorf("service.NoteService.Delete: %w", domain.ErrNotFound)
	}

	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return fmt.Errorf("service.NoteService.Delete: %w", err)
	}
	return nil
}

// ListVisible returns one page of notes the viewer may see, newest first:
// shared notes plus the viewer's own. Anonymous viewers see shared notes only.
func (s *NoteService) ListVisible(ctx context.Context, viewer domain.Identity, p domain.PaginationParams) ([]domain.Note, int64, error) {
	notes, total, err := s.notes.ListVisible(ctx, viewer, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.NoteService.ListVisible: %w", err)
	}
	return notes, total, nil
}

// ListRecent returns the viewer's newest notes for the dashboard, at most
// three. Requires a signed-in viewer.
func (s *NoteService) ListRecent(ctx context.Context, viewer domain.Identity) ([]domain.Note, error) {
	if !viewer.Authenticated() {
		return nil, fmt.Errorf("service.NoteService.ListRecent: %w", domain.ErrUnauthenticated)
	}

	notes, err := s.notes.ListRecentByAuthor(ctx, viewer.UserID, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("service.NoteService.ListRecent: %w", err)
	}
	return notes, nil
}

// validateInput checks the business rules common to create and update.
func validateInput(in NoteInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !in.Visibility.Valid() {
		return fmt.Errorf("%w: visibility must be %q or %q", domain.ErrValidation, domain.VisibilityPrivate, domain.VisibilityShared)
	}
	return nil
}

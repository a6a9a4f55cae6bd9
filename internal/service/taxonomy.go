// Package service contains the business logic for the NotaGeng API.
// Services enforce the access policy and business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/notageng/backend/internal/domain"
	"github.com/notageng/backend/internal/repo"
	"github.com/notageng/backend/internal/slug"
)

// TaxonomyService normalizes free-text subject and tag labels into stable
// records. Subjects dedupe by lowercased slug ("Math" and "math" are one
// subject); tags dedupe by exact name ("Math" and "math" are two tags).
// The asymmetry is observed product behavior, kept on purpose.
type TaxonomyService struct {
	subjects repo.SubjectRepo
	tags     repo.TagRepo
}

// NewTaxonomyService constructs a TaxonomyService backed by the provided repos.
func NewTaxonomyService(subjects repo.SubjectRepo, tags repo.TagRepo) *TaxonomyService {
	return &TaxonomyService{subjects: subjects, tags: tags}
}

// UpsertSubject resolves a free-text subject name to a subject ID, creating
// the subject on first use. A blank name — or one that normalizes to an empty
// slug, like "!!!" — means the note has no subject, and nil is returned.
func (s *TaxonomyService) UpsertSubject(ctx context.Context, name string, creator uuid.UUID) (*uuid.UUID, error) {
	name = strings.TrimSpace(name)
	sl := slug.Make(name)
	if sl == "" {
		return nil, nil
	}

	subject, err := s.subjects.Upsert(ctx, name, sl, creator)
	if err != nil {
		return nil, fmt.Errorf("service.TaxonomyService.UpsertSubject: %w", err)
	}
	return &subject.ID, nil
}

// ApplyTags replaces a note's full tag set with the given names: each name is
// upserted and the association rows are rewritten. Names are trimmed, empties
// dropped, and duplicates collapsed to their first occurrence before any
// write. An empty list clears the note's tags.
func (s *TaxonomyService) ApplyTags(ctx context.Context, noteID uuid.UUID, names []string) error {
	tagIDs := make([]uuid.UUID, 0, len(names))
	for _, name := range dedupeNames(names) {
		tag, err := s.tags.Upsert(ctx, name)
		if err != nil {
			return fmt.Errorf("service.TaxonomyService.ApplyTags: %w", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := s.tags.ReplaceForNote(ctx, noteID, tagIDs); err != nil {
		return fmt.Errorf("service.TaxonomyService.ApplyTags: %w", err)
	}
	return nil
}

// TagsForNote returns the tags attached to a note. Tags carry no sensitivity
// beyond the note itself, so this runs unconditionally once the note's read
// authorization has passed.
func (s *TaxonomyService) TagsForNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error) {
	tags, err := s.tags.ListByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("service.TaxonomyService.TagsForNote: %w", err)
	}
	return tags, nil
}

// ListSubjects returns all subjects, for the editor's subject picker.
func (s *TaxonomyService) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TaxonomyService.ListSubjects: %w", err)
	}
	return subjects, nil
}

// ListTags returns all tags, for the editor's tag suggestions.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TaxonomyService.ListTags: %w", err)
	}
	return tags, nil
}

// dedupeNames trims, drops empties, and keeps the first occurrence of each
// name, preserving submission order. Comparison is case-sensitive to match
// tag identity.
func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

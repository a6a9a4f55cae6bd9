package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/notageng/backend/internal/domain"
)

// TagRepo defines the persistence operations for Tags and the note_tags join table.
type TagRepo interface {
	// Upsert inserts a tag by exact name, or returns the existing tag if the
	// name already exists. Tag identity is case-sensitive: "Math" and "math"
	// are distinct tags.
	Upsert(ctx context.Context, name string) (domain.Tag, error)

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]domain.Tag, error)

	// ListByNote returns all tags linked to a note, ordered by name.
	ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error)

	// ReplaceForNote replaces the full tag association set for a note:
	// all existing note_tags rows are deleted, then one row per tagID is
	// inserted, inside a single transaction. Safe to retry — replaying the
	// same call yields the same final state.
	ReplaceForNote(ctx context.Context, noteID uuid.UUID, tagIDs []uuid.UUID) error
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// Upsert inserts a tag or returns the existing row on name conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when
// the conflict handler skips the insert — without it, RETURNING returns
// nothing on DO NOTHING conflicts.
func (r *pgTagRepo) Upsert(ctx context.Context, name string) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Upsert: %w", err)
	}
	return result, nil
}

// List returns all tags ordered by name.
func (r *pgTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	const q = `
		SELECT id, name, created_at
		FROM tags
		ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// ListByNote returns all tags linked to a note, ordered by name.
func (r *pgTagRepo) ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error) {
	const q = `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = @note_id
		ORDER BY t.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"note_id": noteID})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByNote: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

// ReplaceForNote deletes the note's association rows and re-inserts the given
// set inside one transaction, so a mid-loop failure never leaves a partial
// tag set visible. On a pool this opens a real transaction; on a test tx it
// opens a savepoint.
func (r *pgTagRepo) ReplaceForNote(ctx context.Context, noteID uuid.UUID, tagIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TagRepo.ReplaceForNote: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const del = `DELETE FROM note_tags WHERE note_id = @note_id`
	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"note_id": noteID}); err != nil {
		return fmt.Errorf("repo.TagRepo.ReplaceForNote: delete: %w", err)
	}

	const ins = `
		INSERT INTO note_tags (note_id, tag_id)
		VALUES (@note_id, @tag_id)
		ON CONFLICT (note_id, tag_id) DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, ins, pgx.NamedArgs{"note_id": noteID, "tag_id": tagID}); err != nil {
			return fmt.Errorf("repo.TagRepo.ReplaceForNote: insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TagRepo.ReplaceForNote: commit: %w", err)
	}
	return nil
}

// collectTags scans all rows into a tag slice.
func collectTags(rows pgx.Rows) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo: scan: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo: rows: %w", err)
	}
	return tags, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t  domain.Tag
		id pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}

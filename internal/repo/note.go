// Package repo contains all database access logic for the NotaGeng API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/notageng/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin is included so repos
// can open their own transactions; on a pgx.Tx it opens a savepoint.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// noteColumns is the select list shared by every note query. The subject name
// comes from a LEFT JOIN so list and detail views never need a second query.
const noteColumns = `
	n.id, n.title, n.content, n.slug, n.visibility, n.author_id,
	n.subject_id, n.created_at, n.updated_at, COALESCE(s.name, '')`

// NoteRepo defines the persistence operations for Notes.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type NoteRepo interface {
	// Create inserts a new note and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, note domain.Note) (domain.Note, error)

	// GetBySlug retrieves a single note by its unique slug. This is a raw
	// fetch — read authorization is the service layer's job.
	// Returns domain.ErrNotFound if no note with that slug exists.
	GetBySlug(ctx context.Context, slug string) (domain.Note, error)

	// GetByID retrieves a single note by its UUID primary key.
	// Returns domain.ErrNotFound if no note with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Note, error)

	// Update overwrites the mutable fields of an existing note and returns
	// the updated record. AuthorID is never written — it is immutable after
	// creation. Returns domain.ErrNotFound if no note with that ID exists.
	Update(ctx context.Context, note domain.Note) (domain.Note, error)

	// Delete removes a note by ID. Associated note_tags rows are removed by
	// the ON DELETE CASCADE constraint.
	// Returns domain.ErrNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListVisible returns one page of notes the viewer may see — shared
	// notes plus the viewer's own — newest first, with the total count.
	// Anonymous viewers see shared notes only.
	ListVisible(ctx context.Context, viewer domain.Identity, p domain.PaginationParams) ([]domain.Note, int64, error)

	// ListRecentByAuthor returns the author's most recent notes, newest
	// first, up to limit.
	ListRecentByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.Note, error)

	// SlugExists reports whether any note already uses the given slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

// Create inserts a new note row and returns the full persisted record.
func (r *pgNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		INSERT INTO notes (title, content, slug, visibility, author_id, subject_id)
		VALUES (@title, @content, @slug, @visibility, @author_id, @subject_id)
		RETURNING id, title, content, slug, visibility, author_id,
		          subject_id, created_at, updated_at, ''`

	args := pgx.NamedArgs{
		"title":      note.Title,
		"content":    note.Content,
		"slug":       note.Slug,
		"visibility": note.Visibility,
		"author_id":  note.AuthorID,
		"subject_id": note.SubjectID, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}
	result.SubjectName = "" // not joined on insert; callers use the subject repo
	return result, nil
}

// GetBySlug retrieves a note by its unique slug, with the subject name joined in.
func (r *pgNoteRepo) GetBySlug(ctx context.Context, slug string) (domain.Note, error) {
	q := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN subjects s ON s.id = n.subject_id
		WHERE n.slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// GetByID retrieves a note by primary key, with the subject name joined in.
func (r *pgNoteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Note, error) {
	q := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN subjects s ON s.id = n.subject_id
		WHERE n.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a note and returns the updated record.
func (r *pgNoteRepo) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		UPDATE notes
		SET title      = @title,
		    content    = @content,
		    slug       = @slug,
		    visibility = @visibility,
		    subject_id = @subject_id,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, title, content, slug, visibility, author_id,
		          subject_id, created_at, updated_at, ''`

	args := pgx.NamedArgs{
		"id":         note.ID,
		"title":      note.Title,
		"content":    note.Content,
		"slug":       note.Slug,
		"visibility": note.Visibility,
		"subject_id": note.SubjectID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNote(row)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a note by primary key. note_tags rows cascade.
func (r *pgNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListVisible returns one page of notes visible to the viewer, newest first.
// Authenticated viewers see shared notes plus their own private ones;
// anonymous viewers see shared notes only.
func (r *pgNoteRepo) ListVisible(ctx context.Context, viewer domain.Identity, p domain.PaginationParams) ([]domain.Note, int64, error) {
	where := `n.visibility = 'shared'`
	args := pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()}
	if viewer.Authenticated() {
		where = `(n.visibility = 'shared' OR n.author_id = @viewer)`
		args["viewer"] = viewer.UserID
	}

	countQ := `SELECT count(*) FROM notes n WHERE ` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.NoteRepo.ListVisible: count: %w", err)
	}

	q := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN subjects s ON s.id = n.subject_id
		WHERE ` + where + `
		ORDER BY n.created_at DESC
		LIMIT @limit OFFSET @offset`

	notes, err := r.queryNotes(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NoteRepo.ListVisible: %w", err)
	}
	return notes, total, nil
}

// ListRecentByAuthor returns the author's newest notes for the dashboard.
func (r *pgNoteRepo) ListRecentByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.Note, error) {
	q := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN subjects s ON s.id = n.subject_id
		WHERE n.author_id = @author_id
		ORDER BY n.created_at DESC
		LIMIT @limit`

	notes, err := r.queryNotes(ctx, q, pgx.NamedArgs{"author_id": authorID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.ListRecentByAuthor: %w", err)
	}
	return notes, nil
}

// SlugExists reports whether a slug is already taken by any note.
func (r *pgNoteRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM notes WHERE slug = @slug)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.NoteRepo.SlugExists: %w", err)
	}
	return exists, nil
}

// queryNotes runs a multi-row note query and scans all rows.
func (r *pgNoteRepo) queryNotes(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Note, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return notes, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanNote maps a single database row into a domain.Note.
// It handles the UUID conversions and the nullable subject_id.
func scanNote(s scanner) (domain.Note, error) {
	var (
		n         domain.Note
		id        pgtype.UUID
		authorID  pgtype.UUID
		subjectID pgtype.UUID
	)

	err := s.Scan(&id, &n.Title, &n.Content, &n.Slug, &n.Visibility, &authorID,
		&subjectID, &n.CreatedAt, &n.UpdatedAt, &n.SubjectName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.AuthorID = uuid.UUID(authorID.Bytes)
	if subjectID.Valid {
		sid := uuid.UUID(subjectID.Bytes)
		n.SubjectID = &sid
	}

	return n, nil
}

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

// SubjectRepo defines the persistence operations for Subjects.
type SubjectRepo interface {
	// Upsert inserts a subject by slug, or returns the existing subject if
	// the slug already exists. The name and creator of the first creation
	// are preserved on conflict.
	Upsert(ctx context.Context, name, slug string, createdBy uuid.UUID) (domain.Subject, error)

	// GetByID retrieves a single subject by its UUID primary key.
	// Returns domain.ErrNotFound if no subject with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Subject, error)

	// List returns all subjects ordered by slug.
	List(ctx context.Context) ([]domain.Subject, error)
}

// pgSubjectRepo is the Postgres implementation of SubjectRepo.
type pgSubjectRepo struct {
	db db
}

// NewSubjectRepo constructs a SubjectRepo backed by the provided db connection.
func NewSubjectRepo(db db) SubjectRepo {
	return &pgSubjectRepo{db: db}
}

// Upsert inserts a subject or returns the existing row on slug conflict.
// The slug unique constraint plus ON CONFLICT closes the lookup-then-insert
// race window: two concurrent creations of the same new subject name resolve
// to a single row. The DO UPDATE SET trick forces the RETURNING clause to
// fire even when the conflict handler skips the insert — without it,
// RETURNING returns nothing on DO NOTHING conflicts.
func (r *pgSubjectRepo) Upsert(ctx context.Context, name, slug string, createdBy uuid.UUID) (domain.Subject, error) {
	const q = `
		INSERT INTO subjects (name, slug, created_by_user_id)
		VALUES (@name, @slug, @created_by)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_by_user_id, created_at`

	args := pgx.NamedArgs{"name": name, "slug": slug, "created_by": createdBy}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSubject(row)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("repo.SubjectRepo.Upsert: %w", err)
	}
	return result, nil
}

// GetByID retrieves a subject by primary key.
func (r *pgSubjectRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Subject, error) {
	const q = `
		SELECT id, name, slug, created_by_user_id, created_at
		FROM subjects
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanSubject(row)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("repo.SubjectRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all subjects ordered by slug.
func (r *pgSubjectRepo) List(ctx context.Context) ([]domain.Subject, error) {
	const q = `
		SELECT id, name, slug, created_by_user_id, created_at
		FROM subjects
		ORDER BY slug`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SubjectRepo.List: %w", err)
	}
	defer rows.Close()

	subjects := []domain.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SubjectRepo.List: scan: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SubjectRepo.List: rows: %w", err)
	}
	return subjects, nil
}

// scanSubject maps a single database row into a domain.Subject.
func scanSubject(s scanner) (domain.Subject, error) {
	var (
		subj      domain.Subject
		id        pgtype.UUID
		createdBy pgtype.UUID
	)
	err := s.Scan(&id, &subj.Name, &subj.Slug, &createdBy, &subj.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subject{}, domain.ErrNotFound
		}
		return domain.Subject{}, err
	}
	subj.ID = uuid.UUID(id.Bytes)
	subj.CreatedByUserID = uuid.UUID(createdBy.Bytes)
	return subj, nil
}

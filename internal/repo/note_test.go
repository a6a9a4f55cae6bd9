package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notageng/backend/internal/domain"
	"github.com/notageng/backend/internal/repo"
	"github.com/notageng/backend/testutil"
)

// newNoteRepo opens a transaction against the test database and returns a
// NoteRepo backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newNoteRepo(t *testing.T) repo.NoteRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewNoteRepo(tx)
}

// noteFixture returns a domain.Note with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func noteFixture() domain.Note {
	return domain.Note{
		Title:      "Photosynthesis Summary",
		Content:    "# Photosynthesis\n\nLight-dependent reactions first.",
		Slug:       "photosynthesis-summary",
		Visibility: domain.VisibilityShared,
		AuthorID:   uuid.New(),
	}
}

func TestNoteRepo_Create(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	input := noteFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Title, got.Title)
	assert.Equal(t, input.Content, got.Content)
	assert.Equal(t, input.Slug, got.Slug)
	assert.Equal(t, input.Visibility, got.Visibility)
	assert.Equal(t, input.AuthorID, got.AuthorID)
	assert.Nil(t, got.SubjectID, "SubjectID should stay nil when not provided")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestNoteRepo_Create_DuplicateSlug(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, noteFixture())
	require.NoError(t, err)

	_, err = r.Create(ctx, noteFixture())
	assert.Error(t, err, "slug unique constraint should reject the second insert")
}

func TestNoteRepo_GetBySlug(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, noteFixture())
	require.NoError(t, err)

	got, err := r.GetBySlug(ctx, created.Slug)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, "", got.SubjectName, "no subject joined")
}

func TestNoteRepo_GetBySlug_NotFound(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	_, err := r.GetBySlug(ctx, "no-such-slug")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_GetBySlug_JoinsSubjectName(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	subjects := repo.NewSubjectRepo(tx)
	notes := repo.NewNoteRepo(tx)

	subject, err := subjects.Upsert(ctx, "Biologi", "biologi", uuid.New())
	require.NoError(t, err)

	input := noteFixture()
	input.SubjectID = &subject.ID
	created, err := notes.Create(ctx, input)
	require.NoError(t, err)

	got, err := notes.GetBySlug(ctx, created.Slug)

	require.NoError(t, err)
	require.NotNil(t, got.SubjectID)
	assert.Equal(t, subject.ID, *got.SubjectID)
	assert.Equal(t, "Biologi", got.SubjectName)
}

func TestNoteRepo_Update(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, noteFixture())
	require.NoError(t, err)

	created.Title = "Updated Title"
	created.Content = "new body"
	created.Slug = "updated-title"
	created.Visibility = domain.VisibilityPrivate

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, "new body", updated.Content)
	assert.Equal(t, "updated-title", updated.Slug)
	assert.Equal(t, domain.VisibilityPrivate, updated.Visibility)
	assert.Equal(t, created.AuthorID, updated.AuthorID, "author must never change")
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestNoteRepo_Update_NotFound(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	ghost := noteFixture()
	ghost.ID = uuid.New()

	_, err := r.Update(ctx, ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_Delete(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, noteFixture())
	require.NoError(t, err)

	err = r.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = r.GetBySlug(ctx, created.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound, "note should be gone after delete")
}

func TestNoteRepo_Delete_NotFound(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	err := r.Delete(ctx, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepo_Delete_CascadesTagLinks(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	notes := repo.NewNoteRepo(tx)
	tags := repo.NewTagRepo(tx)

	note, err := notes.Create(ctx, noteFixture())
	require.NoError(t, err)

	tag, err := tags.Upsert(ctx, "exam")
	require.NoError(t, err)
	require.NoError(t, tags.ReplaceForNote(ctx, note.ID, []uuid.UUID{tag.ID}))

	require.NoError(t, notes.Delete(ctx, note.ID))

	linked, err := tags.ListByNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, linked, "note_tags rows should cascade with the note")
}

// ---- visibility listing ----

func TestNoteRepo_ListVisible_Anonymous(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	shared := noteFixture()
	private := noteFixture()
	private.Slug = "private-note"
	private.Visibility = domain.VisibilityPrivate

	_, err := r.Create(ctx, shared)
	require.NoError(t, err)
	_, err = r.Create(ctx, private)
	require.NoError(t, err)

	notes, total, err := r.ListVisible(ctx, domain.Anonymous(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	for _, n := range notes {
		assert.Equal(t, domain.VisibilityShared, n.Visibility, "anonymous viewers see shared notes only")
	}
	assert.GreaterOrEqual(t, total, int64(1))
}

func TestNoteRepo_ListVisible_IncludesOwnPrivate(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	author := uuid.New()

	mine := noteFixture()
	mine.Slug = "my-private-note"
	mine.Visibility = domain.VisibilityPrivate
	mine.AuthorID = author

	other := noteFixture()
	other.Slug = "someone-elses-private"
	other.Visibility = domain.VisibilityPrivate

	_, err := r.Create(ctx, mine)
	require.NoError(t, err)
	_, err = r.Create(ctx, other)
	require.NoError(t, err)

	notes, _, err := r.ListVisible(ctx, domain.Identity{UserID: author}, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)

	var slugs []string
	for _, n := range notes {
		slugs = append(slugs, n.Slug)
	}
	assert.Contains(t, slugs, "my-private-note")
	assert.NotContains(t, slugs, "someone-elses-private")
}

func TestNoteRepo_ListVisible_Pagination(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := noteFixture()
		n.Slug = "page-note-" + uuid.NewString()
		_, err := r.Create(ctx, n)
		require.NoError(t, err)
	}

	page, limit := 1, 2
	notes, total, err := r.ListVisible(ctx, domain.Anonymous(), domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.Len(t, notes, 2, "page size should cap the result")
	assert.GreaterOrEqual(t, total, int64(3), "total counts all matching rows, not the page")
}

func TestNoteRepo_ListRecentByAuthor(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	author := uuid.New()
	for i := 0; i < 4; i++ {
		n := noteFixture()
		n.Slug = "recent-" + uuid.NewString()
		n.AuthorID = author
		_, err := r.Create(ctx, n)
		require.NoError(t, err)
	}

	notes, err := r.ListRecentByAuthor(ctx, author, 3)

	require.NoError(t, err)
	assert.Len(t, notes, 3, "limit should cap the result")
	for _, n := range notes {
		assert.Equal(t, author, n.AuthorID)
	}
}

func TestNoteRepo_SlugExists(t *testing.T) {
	r := newNoteRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, noteFixture())
	require.NoError(t, err)

	taken, err := r.SlugExists(ctx, created.Slug)
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := r.SlugExists(ctx, "definitely-free-slug")
	require.NoError(t, err)
	assert.False(t, free)
}

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

// newSubjectRepo opens a transaction against the test database and returns a
// SubjectRepo backed by that transaction. See newNoteRepo for the pattern.
func newSubjectRepo(t *testing.T) repo.SubjectRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewSubjectRepo(tx)
}

func TestSubjectRepo_Upsert(t *testing.T) {
	r := newSubjectRepo(t)
	ctx := context.Background()

	creator := uuid.New()
	got, err := r.Upsert(ctx, "Matematik", "matematik", creator)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, "Matematik", got.Name)
	assert.Equal(t, "matematik", got.Slug)
	assert.Equal(t, creator, got.CreatedByUserID)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestSubjectRepo_Upsert_SameSlugReturnsExisting(t *testing.T) {
	r := newSubjectRepo(t)
	ctx := context.Background()

	first, err := r.Upsert(ctx, "Math", "math", uuid.New())
	require.NoError(t, err)

	// A differently cased name normalizes to the same slug — no second row,
	// and the original name and creator win.
	second, err := r.Upsert(ctx, "MATH", "math", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same slug must resolve to one row")
	assert.Equal(t, "Math", second.Name, "first creation's name is preserved")
	assert.Equal(t, first.CreatedByUserID, second.CreatedByUserID)
}

func TestSubjectRepo_GetByID(t *testing.T) {
	r := newSubjectRepo(t)
	ctx := context.Background()

	created, err := r.Upsert(ctx, "Sejarah", "sejarah", uuid.New())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Sejarah", got.Name)
}

func TestSubjectRepo_GetByID_NotFound(t *testing.T) {
	r := newSubjectRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubjectRepo_List_OrderedBySlug(t *testing.T) {
	r := newSubjectRepo(t)
	ctx := context.Background()

	creator := uuid.New()
	_, err := r.Upsert(ctx, "Fizik", "fizik", creator)
	require.NoError(t, err)
	_, err = r.Upsert(ctx, "Biologi", "biologi", creator)
	require.NoError(t, err)

	subjects, err := r.List(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(subjects), 2)
	for i := 1; i < len(subjects); i++ {
		assert.LessOrEqual(t, subjects[i-1].Slug, subjects[i].Slug, "list must be ordered by slug")
	}
}

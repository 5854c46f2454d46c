package journals

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globizsReact/dmu-journal-sub000/pkg/database"
	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return NewRepo(db)
}

func TestCategoryExists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, "cat-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Create(ctx, models.JournalCategory{
		ID:          "cat-1",
		Name:        "Agricultural Sciences",
		Description: "agronomy, soil, irrigation",
	}))

	ok, err = repo.Exists(ctx, "cat-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCategoryListAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, models.JournalCategory{ID: "cat-b", Name: "Medicine"}))
	require.NoError(t, repo.Create(ctx, models.JournalCategory{ID: "cat-a", Name: "Engineering"}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// ordered by name
	assert.Equal(t, "Engineering", items[0].Name)
	assert.Equal(t, "Medicine", items[1].Name)

	cat, err := repo.GetByID(ctx, "cat-b")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "Medicine", cat.Name)

	cat, err = repo.GetByID(ctx, "no-such")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

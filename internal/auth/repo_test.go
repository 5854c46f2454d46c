package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globizsReact/dmu-journal-sub000/pkg/database"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return NewRepo(db)
}

func TestReviewerApprovalFlow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, User{
		ID:           "rev-1",
		Username:     "tomba",
		Email:        "tomba@example.com",
		PasswordHash: "x",
		Role:         RoleReviewer,
		Approval:     ApprovalPending,
	}))

	u, err := repo.GetByID(ctx, "rev-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, ApprovalPending, u.Approval)

	ident := Identity{UserID: u.ID, Role: u.Role, Approval: u.Approval}
	assert.False(t, ident.IsActiveReviewer())
	assert.False(t, ident.IsStaff())

	pending, err := repo.ListPendingReviewers(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "rev-1", pending[0].ID)

	ok, err := repo.ApproveReviewer(ctx, "rev-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// privileges flip without any token change
	u, err = repo.GetByID(ctx, "rev-1")
	require.NoError(t, err)
	ident = Identity{UserID: u.ID, Role: u.Role, Approval: u.Approval}
	assert.True(t, ident.IsActiveReviewer())
	assert.True(t, ident.IsStaff())

	pending, err = repo.ListPendingReviewers(ctx, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// approving twice is a no-op
	ok, err = repo.ApproveReviewer(ctx, "rev-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApproveReviewerIgnoresOtherRoles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, User{
		ID:           "auth-1",
		Username:     "mina",
		Email:        "mina@example.com",
		PasswordHash: "x",
		Role:         RoleAuthor,
		Approval:     ApprovalApproved,
	}))

	ok, err := repo.ApproveReviewer(ctx, "auth-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ApproveReviewer(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetByEmailNormalizes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, User{
		ID:           "auth-1",
		Username:     "mina",
		Email:        "mina@example.com",
		PasswordHash: "x",
		Role:         RoleAuthor,
		Approval:     ApprovalApproved,
	}))

	u, err := repo.GetByEmail(ctx, "  MINA@example.com ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "auth-1", u.ID)

	u, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

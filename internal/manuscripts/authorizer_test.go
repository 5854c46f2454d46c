package manuscripts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

var allStatuses = []models.Status{
	models.StatusSubmitted,
	models.StatusInReview,
	models.StatusAccepted,
	models.StatusPublished,
	models.StatusSuspended,
}

func ident(id string, role auth.Role, approval auth.ApprovalStatus) auth.Identity {
	return auth.Identity{UserID: id, Role: role, Approval: approval}
}

func manuscript(owner string, status models.Status) *models.Manuscript {
	return &models.Manuscript{ID: "ms-1", SubmittedByID: owner, Status: status}
}

func TestCanSetStatusAdmin(t *testing.T) {
	var az Authorizer
	admin := ident("admin-1", auth.RoleAdmin, auth.ApprovalApproved)

	// admins may set any status from any status
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := az.CanSetStatus(admin, manuscript("someone-else", from), to)
			assert.NoError(t, err, "admin %s -> %s", from, to)
		}
	}
}

func TestCanSetStatusReviewer(t *testing.T) {
	var az Authorizer
	reviewer := ident("rev-1", auth.RoleReviewer, auth.ApprovalApproved)

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := az.CanSetStatus(reviewer, manuscript("someone-else", from), to)
			if to == models.StatusSubmitted {
				assert.ErrorIs(t, err, ErrRoleNotPermitted, "reviewer %s -> %s", from, to)
			} else {
				assert.NoError(t, err, "reviewer %s -> %s", from, to)
			}
		}
	}
}

func TestCanSetStatusPendingReviewer(t *testing.T) {
	var az Authorizer
	pending := ident("rev-2", auth.RoleReviewer, auth.ApprovalPending)

	// a reviewer awaiting approval is denied everything
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := az.CanSetStatus(pending, manuscript("someone-else", from), to)
			assert.ErrorIs(t, err, ErrRoleNotPermitted, "pending reviewer %s -> %s", from, to)
		}
	}
}

func TestCanSetStatusAuthor(t *testing.T) {
	var az Authorizer
	owner := ident("auth-1", auth.RoleAuthor, auth.ApprovalApproved)
	stranger := ident("auth-2", auth.RoleAuthor, auth.ApprovalApproved)

	t.Run("owner may suspend a published manuscript", func(t *testing.T) {
		err := az.CanSetStatus(owner, manuscript("auth-1", models.StatusPublished), models.StatusSuspended)
		assert.NoError(t, err)
	})

	t.Run("owner may not suspend before publication", func(t *testing.T) {
		for _, from := range []models.Status{models.StatusSubmitted, models.StatusInReview, models.StatusAccepted, models.StatusSuspended} {
			err := az.CanSetStatus(owner, manuscript("auth-1", from), models.StatusSuspended)
			assert.ErrorIs(t, err, ErrInvalidCurrentState, "from %s", from)
		}
	})

	t.Run("owner may not set anything but Suspended", func(t *testing.T) {
		for _, to := range []models.Status{models.StatusSubmitted, models.StatusInReview, models.StatusAccepted, models.StatusPublished} {
			err := az.CanSetStatus(owner, manuscript("auth-1", models.StatusPublished), to)
			assert.ErrorIs(t, err, ErrRoleNotPermitted, "to %s", to)
		}
	})

	t.Run("non-owner author always fails ownership", func(t *testing.T) {
		for _, from := range allStatuses {
			err := az.CanSetStatus(stranger, manuscript("auth-1", from), models.StatusSuspended)
			assert.ErrorIs(t, err, ErrNotOwner, "from %s", from)
		}
	})
}

func TestCanRead(t *testing.T) {
	var az Authorizer
	m := manuscript("auth-1", models.StatusInReview)

	assert.NoError(t, az.CanRead(ident("admin-1", auth.RoleAdmin, auth.ApprovalApproved), m))
	assert.NoError(t, az.CanRead(ident("rev-1", auth.RoleReviewer, auth.ApprovalApproved), m))
	assert.NoError(t, az.CanRead(ident("auth-1", auth.RoleAuthor, auth.ApprovalApproved), m))

	assert.ErrorIs(t, az.CanRead(ident("auth-2", auth.RoleAuthor, auth.ApprovalApproved), m), ErrNotOwner)
	assert.ErrorIs(t, az.CanRead(ident("rev-2", auth.RoleReviewer, auth.ApprovalPending), m), ErrRoleNotPermitted)
}

func TestCanDelete(t *testing.T) {
	var az Authorizer
	owner := ident("auth-1", auth.RoleAuthor, auth.ApprovalApproved)

	t.Run("owner may delete early states", func(t *testing.T) {
		assert.NoError(t, az.CanDelete(owner, manuscript("auth-1", models.StatusSubmitted)))
		assert.NoError(t, az.CanDelete(owner, manuscript("auth-1", models.StatusInReview)))
	})

	t.Run("published is never deletable", func(t *testing.T) {
		err := az.CanDelete(owner, manuscript("auth-1", models.StatusPublished))
		assert.ErrorIs(t, err, ErrPublishedNotDeletable)
	})

	t.Run("later non-published states are kept", func(t *testing.T) {
		assert.ErrorIs(t, az.CanDelete(owner, manuscript("auth-1", models.StatusAccepted)), ErrInvalidCurrentState)
		assert.ErrorIs(t, az.CanDelete(owner, manuscript("auth-1", models.StatusSuspended)), ErrInvalidCurrentState)
	})

	t.Run("only the owning author", func(t *testing.T) {
		assert.ErrorIs(t, az.CanDelete(ident("auth-2", auth.RoleAuthor, auth.ApprovalApproved), manuscript("auth-1", models.StatusSubmitted)), ErrNotOwner)
		assert.ErrorIs(t, az.CanDelete(ident("admin-1", auth.RoleAdmin, auth.ApprovalApproved), manuscript("auth-1", models.StatusSubmitted)), ErrRoleNotPermitted)
		assert.ErrorIs(t, az.CanDelete(ident("rev-1", auth.RoleReviewer, auth.ApprovalApproved), manuscript("auth-1", models.StatusSubmitted)), ErrRoleNotPermitted)
	})
}

func TestCanSubmit(t *testing.T) {
	var az Authorizer

	assert.NoError(t, az.CanSubmit(ident("auth-1", auth.RoleAuthor, auth.ApprovalApproved)))
	assert.NoError(t, az.CanSubmit(ident("admin-1", auth.RoleAdmin, auth.ApprovalApproved)))
	assert.NoError(t, az.CanSubmit(ident("rev-1", auth.RoleReviewer, auth.ApprovalApproved)))
	assert.ErrorIs(t, az.CanSubmit(ident("rev-2", auth.RoleReviewer, auth.ApprovalPending)), ErrRoleNotPermitted)
}

func TestCanListAll(t *testing.T) {
	var az Authorizer

	assert.NoError(t, az.CanListAll(ident("admin-1", auth.RoleAdmin, auth.ApprovalApproved)))
	assert.NoError(t, az.CanListAll(ident("rev-1", auth.RoleReviewer, auth.ApprovalApproved)))
	assert.ErrorIs(t, az.CanListAll(ident("auth-1", auth.RoleAuthor, auth.ApprovalApproved)), ErrRoleNotPermitted)
	assert.ErrorIs(t, az.CanListAll(ident("rev-2", auth.RoleReviewer, auth.ApprovalPending)), ErrRoleNotPermitted)
}

package manuscripts

import (
	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

// Authorizer holds every role/ownership/state decision for
// manuscripts in one place, so no endpoint re-implements its own
// ownership check. Decisions are pure; nothing here touches storage.
//
// There is deliberately no transition adjacency graph: which statuses
// an actor may set is a property of the role, not of the current
// status. The only state-dependent rule is the author's
// unpublish guard.
type Authorizer struct{}

// statusPermissions is the set of target statuses each role may set.
var statusPermissions = map[auth.Role]map[models.Status]bool{
	auth.RoleAdmin: {
		models.StatusSubmitted: true,
		models.StatusInReview:  true,
		models.StatusAccepted:  true,
		models.StatusPublished: true,
		models.StatusSuspended: true,
	},
	auth.RoleReviewer: {
		models.StatusInReview:  true,
		models.StatusAccepted:  true,
		models.StatusSuspended: true,
		models.StatusPublished: true,
	},
	auth.RoleAuthor: {
		models.StatusSuspended: true,
	},
}

// CanSetStatus decides whether actor may move m to target.
func (Authorizer) CanSetStatus(actor auth.Identity, m *models.Manuscript, target models.Status) error {
	// a reviewer awaiting approval authenticates but holds no
	// privileges at all
	if actor.Role == auth.RoleReviewer && !actor.IsActiveReviewer() {
		return ErrRoleNotPermitted
	}

	if !statusPermissions[actor.Role][target] {
		return ErrRoleNotPermitted
	}

	if actor.Role == auth.RoleAuthor {
		if m.SubmittedByID != actor.UserID {
			return ErrNotOwner
		}
		// authors may only pull back a published manuscript
		if m.Status != models.StatusPublished {
			return ErrInvalidCurrentState
		}
	}
	return nil
}

// CanRead decides whether actor may see m: staff see everything,
// authors see their own submissions.
func (Authorizer) CanRead(actor auth.Identity, m *models.Manuscript) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.Role == auth.RoleAuthor {
		if m.SubmittedByID == actor.UserID {
			return nil
		}
		return ErrNotOwner
	}
	return ErrRoleNotPermitted
}

// CanDelete decides whether actor may permanently remove m. Only the
// owning author may delete, and only while the manuscript is still in
// one of the two earliest states. Authorization is checked before any
// state guard so a stranger learns nothing about the record.
func (Authorizer) CanDelete(actor auth.Identity, m *models.Manuscript) error {
	if actor.Role != auth.RoleAuthor {
		return ErrRoleNotPermitted
	}
	if m.SubmittedByID != actor.UserID {
		return ErrNotOwner
	}
	switch m.Status {
	case models.StatusSubmitted, models.StatusInReview:
		return nil
	case models.StatusPublished:
		return ErrPublishedNotDeletable
	default:
		return ErrInvalidCurrentState
	}
}

// CanSubmit decides whether actor may create a new submission. Any
// authenticated account may submit except a reviewer still awaiting
// approval.
func (Authorizer) CanSubmit(actor auth.Identity) error {
	if actor.Role == auth.RoleReviewer && !actor.IsActiveReviewer() {
		return ErrRoleNotPermitted
	}
	return nil
}

// CanListAll decides whether actor may list every manuscript.
func (Authorizer) CanListAll(actor auth.Identity) error {
	if !actor.IsStaff() {
		return ErrRoleNotPermitted
	}
	return nil
}

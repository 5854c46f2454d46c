package auth

type Role string

const (
	RoleAuthor   Role = "author"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
)

// Identity is the resolved caller of a request: who they are, what
// account role they hold, and whether that role has been approved.
// A reviewer whose approval is still pending authenticates normally
// but carries no privileges — the two parts are kept separate so
// downstream checks never have to special-case a role value.
type Identity struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Role     Role           `json:"role"`
	Approval ApprovalStatus `json:"approval_status"`
}

func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// IsActiveReviewer reports whether the caller holds reviewer
// privileges, i.e. is an approved reviewer.
func (id Identity) IsActiveReviewer() bool {
	return id.Role == RoleReviewer && id.Approval == ApprovalApproved
}

// IsStaff reports whether the caller may see and act on any
// manuscript: admins and approved reviewers.
func (id Identity) IsStaff() bool {
	return id.IsAdmin() || id.IsActiveReviewer()
}

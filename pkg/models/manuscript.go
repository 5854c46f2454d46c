package models

import "time"

// Status is the editorial lifecycle state of a manuscript. The set is
// closed; which values an actor may set is decided by the manuscripts
// authorizer, not by a fixed transition graph.
type Status string

const (
	StatusSubmitted Status = "Submitted"
	StatusInReview  Status = "InReview"
	StatusAccepted  Status = "Accepted"
	StatusPublished Status = "Published"
	StatusSuspended Status = "Suspended"
)

// Valid reports whether s is one of the five defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusAccepted, StatusPublished, StatusSuspended:
		return true
	}
	return false
}

// CoAuthor is one entry of a manuscript's co-author list. The list is
// stored and returned as a structured slice end to end; it is never
// flattened into a delimited string.
type CoAuthor struct {
	Title       string `json:"title,omitempty"`
	GivenName   string `json:"given_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Manuscript is a submitted article under editorial review.
type Manuscript struct {
	ID                 string     `json:"id"`
	Status             Status     `json:"status"`
	JournalCategoryID  string     `json:"journal_category_id"`
	SubmittedByID      string     `json:"submitted_by_id"`
	ArticleTitle       string     `json:"article_title"`
	Abstract           string     `json:"abstract"`
	Keywords           string     `json:"keywords,omitempty"`
	CoAuthors          []CoAuthor `json:"co_authors"`
	ManuscriptFile     string     `json:"manuscript_file_name"`
	CoverLetterFile    string     `json:"cover_letter_file_name,omitempty"`
	SupplementaryFiles string     `json:"supplementary_files_name,omitempty"`
	IsSpecialReview    bool       `json:"is_special_review"`
	AuthorAgreement    bool       `json:"author_agreement"`
	SubmittedAt        time.Time  `json:"submitted_at"`
}

// StatusChange is one row of a manuscript's transition audit trail.
type StatusChange struct {
	ID           int64     `json:"id"`
	ManuscriptID string    `json:"manuscript_id"`
	FromStatus   Status    `json:"from_status"`
	ToStatus     Status    `json:"to_status"`
	ChangedBy    string    `json:"changed_by"`
	ChangedAt    time.Time `json:"changed_at"`
}

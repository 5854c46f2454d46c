package models

// JournalCategory is one journal of the platform. Manuscripts are
// submitted against exactly one category, which must exist at
// submission time.
type JournalCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

package models

import "time"

// Review is a reviewer's (or admin's) comment on a manuscript.
type Review struct {
	ID           int64     `json:"id"`
	ManuscriptID string    `json:"manuscript_id"`
	ReviewerID   string    `json:"reviewer_id"`
	Comments     string    `json:"comments"`
	CreatedAt    time.Time `json:"created_at"`
}

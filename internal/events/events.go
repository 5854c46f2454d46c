package events

import (
	"time"

	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

const (
	TypeSubmitted     = "manuscript.submitted"
	TypeStatusChanged = "manuscript.status_changed"
	TypeDeleted       = "manuscript.deleted"
)

// ManuscriptEvent is broadcast to connected clients whenever a
// manuscript enters, moves through, or leaves the lifecycle.
type ManuscriptEvent struct {
	Type         string        `json:"type"`
	ManuscriptID string        `json:"manuscript_id"`
	FromStatus   models.Status `json:"from_status,omitempty"`
	Status       models.Status `json:"status,omitempty"`
	ActorID      string        `json:"actor_id"`
	At           time.Time     `json:"at"`
}

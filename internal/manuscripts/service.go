package manuscripts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/internal/events"
	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

// CategoryChecker is the journal-category collaborator consulted at
// submission time.
type CategoryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Broadcaster receives lifecycle events for fan-out. *events.Hub
// satisfies it; a nil Broadcaster disables broadcasting.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// casAttempts bounds the compare-and-swap retry loop. Losing twice in
// a row against the same manuscript is already rare; three times means
// something is wrong enough to surface.
const casAttempts = 3

// Service is the manuscript lifecycle: ingestion of new submissions
// and every guarded mutation of an existing one. It is the only
// component that writes manuscript records.
type Service struct {
	repo       *Repo
	categories CategoryChecker
	authz      Authorizer
	hub        Broadcaster
}

func NewService(repo *Repo, categories CategoryChecker, hub Broadcaster) *Service {
	return &Service{repo: repo, categories: categories, hub: hub}
}

// SubmitInput is the submission payload. CoAuthors arrive as the
// structured list and are stored verbatim.
type SubmitInput struct {
	JournalCategoryID  string            `json:"journal_category_id"`
	ArticleTitle       string            `json:"article_title"`
	Abstract           string            `json:"abstract"`
	Keywords           string            `json:"keywords"`
	CoAuthors          []models.CoAuthor `json:"co_authors"`
	ManuscriptFile     string            `json:"manuscript_file_name"`
	CoverLetterFile    string            `json:"cover_letter_file_name"`
	SupplementaryFiles string            `json:"supplementary_files_name"`
	IsSpecialReview    bool              `json:"is_special_review"`
	AuthorAgreement    bool              `json:"author_agreement"`
}

// Submit validates the payload and creates the manuscript in the
// Submitted state. This is the sole creation path; on any validation
// failure nothing is written.
func (s *Service) Submit(ctx context.Context, actor auth.Identity, in SubmitInput) (*models.Manuscript, error) {
	if err := s.authz.CanSubmit(actor); err != nil {
		return nil, err
	}

	in.ArticleTitle = strings.TrimSpace(in.ArticleTitle)
	in.Abstract = strings.TrimSpace(in.Abstract)
	in.ManuscriptFile = strings.TrimSpace(in.ManuscriptFile)
	in.JournalCategoryID = strings.TrimSpace(in.JournalCategoryID)

	if !in.AuthorAgreement {
		return nil, invalidInput("authorAgreement", "must be true")
	}
	if in.ArticleTitle == "" {
		return nil, invalidInput("articleTitle", "must not be empty")
	}
	if in.Abstract == "" {
		return nil, invalidInput("abstract", "must not be empty")
	}
	if in.ManuscriptFile == "" {
		return nil, invalidInput("manuscriptFileName", "must not be empty")
	}
	if in.JournalCategoryID == "" {
		return nil, invalidInput("journalCategoryId", "must not be empty")
	}

	ok, err := s.categories.Exists(ctx, in.JournalCategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalidInput("journalCategoryId", "unknown journal category")
	}

	coAuthors := in.CoAuthors
	if coAuthors == nil {
		coAuthors = []models.CoAuthor{}
	}

	m := &models.Manuscript{
		ID:                 uuid.NewString(),
		Status:             models.StatusSubmitted,
		JournalCategoryID:  in.JournalCategoryID,
		SubmittedByID:      actor.UserID,
		ArticleTitle:       in.ArticleTitle,
		Abstract:           in.Abstract,
		Keywords:           strings.TrimSpace(in.Keywords),
		CoAuthors:          coAuthors,
		ManuscriptFile:     in.ManuscriptFile,
		CoverLetterFile:    strings.TrimSpace(in.CoverLetterFile),
		SupplementaryFiles: strings.TrimSpace(in.SupplementaryFiles),
		IsSpecialReview:    in.IsSpecialReview,
		AuthorAgreement:    in.AuthorAgreement,
		SubmittedAt:        time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	s.publish(events.ManuscriptEvent{
		Type:         events.TypeSubmitted,
		ManuscriptID: m.ID,
		Status:       m.Status,
		ActorID:      actor.UserID,
		At:           m.SubmittedAt,
	})
	return m, nil
}

// Get returns the manuscript if the actor may see it.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*models.Manuscript, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	if err := s.authz.CanRead(actor, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateStatus moves the manuscript to target under the actor's
// transition permissions. The read-authorize-swap sequence retries on
// a lost race so the guard is always evaluated against the state the
// winning writer left behind; a denial never mutates anything.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Identity, id string, target models.Status) (*models.Manuscript, error) {
	if !target.Valid() {
		return nil, invalidInput("status", "unknown status value")
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		m, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, ErrNotFound
		}

		if err := s.authz.CanSetStatus(actor, m, target); err != nil {
			return nil, err
		}

		swapped, err := s.repo.UpdateStatus(ctx, id, m.Status, target, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !swapped {
			continue
		}

		from := m.Status
		m.Status = target
		s.publish(events.ManuscriptEvent{
			Type:         events.TypeStatusChanged,
			ManuscriptID: m.ID,
			FromStatus:   from,
			Status:       target,
			ActorID:      actor.UserID,
			At:           time.Now().UTC(),
		})
		return m, nil
	}
	return nil, ErrUpdateConflict
}

// Delete permanently removes the manuscript under the owner-only
// delete guards. Same compare-and-swap contract as UpdateStatus.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		m, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrNotFound
		}

		if err := s.authz.CanDelete(actor, m); err != nil {
			return err
		}

		deleted, err := s.repo.Delete(ctx, id, m.Status)
		if err != nil {
			return err
		}
		if !deleted {
			continue
		}

		s.publish(events.ManuscriptEvent{
			Type:         events.TypeDeleted,
			ManuscriptID: m.ID,
			FromStatus:   m.Status,
			ActorID:      actor.UserID,
			At:           time.Now().UTC(),
		})
		return nil
	}
	return ErrUpdateConflict
}

// ListByOwner returns the actor's own submissions.
func (s *Service) ListByOwner(ctx context.Context, actor auth.Identity, limit, offset int) ([]models.Manuscript, int, error) {
	return s.repo.ListByOwner(ctx, actor.UserID, limit, offset)
}

// ListAll returns every manuscript; staff only.
func (s *Service) ListAll(ctx context.Context, actor auth.Identity, limit, offset int) ([]models.Manuscript, int, error) {
	if err := s.authz.CanListAll(actor); err != nil {
		return nil, 0, err
	}
	return s.repo.ListAll(ctx, limit, offset)
}

// History returns the status audit trail, under the same visibility
// rule as Get.
func (s *Service) History(ctx context.Context, actor auth.Identity, id string) ([]models.StatusChange, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, id)
}

func (s *Service) publish(ev events.ManuscriptEvent) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastJSON(ev)
}

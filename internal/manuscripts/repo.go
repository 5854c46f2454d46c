package manuscripts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const manuscriptColumns = `
	id, status, journal_category_id, submitted_by, article_title, abstract,
	keywords, co_authors, manuscript_file, cover_letter_file,
	supplementary_files, is_special_review, author_agreement, submitted_at
`

func (r *Repo) Insert(ctx context.Context, m *models.Manuscript) error {
	coAuthors, err := json.Marshal(m.CoAuthors)
	if err != nil {
		return fmt.Errorf("marshal co-authors: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO manuscripts (
			id, status, journal_category_id, submitted_by, article_title, abstract,
			keywords, co_authors, manuscript_file, cover_letter_file,
			supplementary_files, is_special_review, author_agreement, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID, string(m.Status), m.JournalCategoryID, m.SubmittedByID,
		m.ArticleTitle, m.Abstract, m.Keywords, string(coAuthors),
		m.ManuscriptFile, m.CoverLetterFile, m.SupplementaryFiles,
		m.IsSpecialReview, m.AuthorAgreement, m.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manuscript: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Manuscript, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+manuscriptColumns+`
		FROM manuscripts
		WHERE id = ?
	`, id)

	m, err := scanManuscript(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan manuscript: %w", err)
	}
	return m, nil
}

// scanManuscript decodes one manuscript row. The co_authors column
// holds the JSON encoding of the structured list; it is decoded here,
// at the storage boundary, and never travels as a string above it.
func scanManuscript(scan func(dest ...any) error) (*models.Manuscript, error) {
	var (
		m          models.Manuscript
		status     string
		keywords   sql.NullString
		coAuthors  string
		coverFile  sql.NullString
		supplFiles sql.NullString
	)

	if err := scan(
		&m.ID, &status, &m.JournalCategoryID, &m.SubmittedByID,
		&m.ArticleTitle, &m.Abstract, &keywords, &coAuthors,
		&m.ManuscriptFile, &coverFile, &supplFiles,
		&m.IsSpecialReview, &m.AuthorAgreement, &m.SubmittedAt,
	); err != nil {
		return nil, err
	}

	m.Status = models.Status(status)
	m.Keywords = keywords.String
	m.CoverLetterFile = coverFile.String
	m.SupplementaryFiles = supplFiles.String
	if err := json.Unmarshal([]byte(coAuthors), &m.CoAuthors); err != nil {
		return nil, fmt.Errorf("decode co-authors: %w", err)
	}
	return &m, nil
}

// UpdateStatus is the per-record compare-and-swap: the row is updated
// only if it still holds the status the caller observed. On success a
// history row is appended in the same transaction. Returns false when
// a concurrent writer got there first; the caller re-reads and
// re-authorizes against the winner's state.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to models.Status, changedBy string) (swapped bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin update status: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE manuscripts
		SET status = ?
		WHERE id = ? AND status = ?
	`, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update status rows: %w", err)
	}
	if n == 0 {
		_ = tx.Rollback()
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO manuscript_status_history (manuscript_id, from_status, to_status, changed_by)
		VALUES (?, ?, ?, ?)
	`, id, string(from), string(to), changedBy)
	if err != nil {
		return false, fmt.Errorf("insert status history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update status: %w", err)
	}
	return true, nil
}

// Delete removes the record only if it still holds the status the
// caller observed, same compare-and-swap contract as UpdateStatus.
func (r *Repo) Delete(ctx context.Context, id string, from models.Status) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM manuscripts
		WHERE id = ? AND status = ?
	`, id, string(from))
	if err != nil {
		return false, fmt.Errorf("delete manuscript: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Manuscript, int, error) {
	limit, offset = clampPage(limit, offset)

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM manuscripts WHERE submitted_by = ?
	`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count by owner: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+manuscriptColumns+`
		FROM manuscripts
		WHERE submitted_by = ?
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?
	`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list by owner: %w", err)
	}
	defer rows.Close()

	out, err := collectManuscripts(rows, limit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repo) ListAll(ctx context.Context, limit, offset int) ([]models.Manuscript, int, error) {
	limit, offset = clampPage(limit, offset)

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM manuscripts
	`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count manuscripts: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+manuscriptColumns+`
		FROM manuscripts
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list manuscripts: %w", err)
	}
	defer rows.Close()

	out, err := collectManuscripts(rows, limit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectManuscripts(rows *sql.Rows, capHint int) ([]models.Manuscript, error) {
	out := make([]models.Manuscript, 0, capHint)
	for rows.Next() {
		m, err := scanManuscript(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan manuscript row: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) History(ctx context.Context, manuscriptID string) ([]models.StatusChange, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, manuscript_id, from_status, to_status, changed_by, changed_at
		FROM manuscript_status_history
		WHERE manuscript_id = ?
		ORDER BY id ASC
	`, manuscriptID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	out := make([]models.StatusChange, 0)
	for rows.Next() {
		var (
			ch   models.StatusChange
			from string
			to   string
			at   time.Time
		)
		if err := rows.Scan(&ch.ID, &ch.ManuscriptID, &from, &to, &ch.ChangedBy, &at); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		ch.FromStatus = models.Status(from)
		ch.ToStatus = models.Status(to)
		ch.ChangedAt = at
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

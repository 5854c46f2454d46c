package reviews

import (
	"context"
	"database/sql"
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

func (r *Repo) Create(ctx context.Context, manuscriptID, reviewerID, comments string) (*models.Review, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO manuscript_reviews (manuscript_id, reviewer_id, comments)
		VALUES (?, ?, ?)
	`, manuscriptID, reviewerID, comments)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, manuscript_id, reviewer_id, comments, created_at
		FROM manuscript_reviews
		WHERE id = ?
	`, id)

	var (
		review models.Review
		at     time.Time
	)
	if err := row.Scan(&review.ID, &review.ManuscriptID, &review.ReviewerID, &review.Comments, &at); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	review.CreatedAt = at
	return &review, nil
}

func (r *Repo) ListByManuscript(ctx context.Context, manuscriptID string, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, manuscript_id, reviewer_id, comments, created_at
		FROM manuscript_reviews
		WHERE manuscript_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, manuscriptID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]models.Review, 0, limit)
	for rows.Next() {
		var (
			review models.Review
			at     time.Time
		)
		if err := rows.Scan(&review.ID, &review.ManuscriptID, &review.ReviewerID, &review.Comments, &at); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		review.CreatedAt = at
		out = append(out, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

package journals

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/globizsReact/dmu-journal-sub000/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Exists reports whether a journal category with the given id is
// registered. Manuscript ingestion consults this before creating a
// record.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM journal_categories WHERE id = ?
	`, id)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.JournalCategory, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description
		FROM journal_categories
		WHERE id = ?
	`, id)

	var (
		cat  models.JournalCategory
		desc sql.NullString
	)
	if err := row.Scan(&cat.ID, &cat.Name, &desc); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	cat.Description = desc.String
	return &cat, nil
}

func (r *Repo) List(ctx context.Context) ([]models.JournalCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description
		FROM journal_categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]models.JournalCategory, 0)
	for rows.Next() {
		var (
			cat  models.JournalCategory
			desc sql.NullString
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &desc); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		cat.Description = desc.String
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, cat models.JournalCategory) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO journal_categories (id, name, description)
		VALUES (?, ?, ?)
	`, cat.ID, cat.Name, cat.Description)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

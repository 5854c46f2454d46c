package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Approval     ApprovalStatus
	CreatedAt    time.Time
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) CreateUser(ctx context.Context, u User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, approval_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), string(u.Approval))

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, approval_status, created_at
		FROM users
		WHERE LOWER(email) = ?
	`, email)
	return scanUser(row)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, approval_status, created_at
		FROM users
		WHERE username = ?
	`, username)
	return scanUser(row)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, approval_status, created_at
		FROM users
		WHERE id = ?
	`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u        User
		role     string
		approval string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &approval, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = Role(role)
	u.Approval = ApprovalStatus(approval)
	return &u, nil
}

// ListPendingReviewers returns reviewer accounts still awaiting
// admin approval, oldest first.
func (r *Repo) ListPendingReviewers(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, username, email, password_hash, role, approval_status, created_at
		FROM users
		WHERE role = ? AND approval_status = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?
	`, string(RoleReviewer), string(ApprovalPending), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending reviewers: %w", err)
	}
	defer rows.Close()

	out := make([]User, 0, limit)
	for rows.Next() {
		var (
			u        User
			role     string
			approval string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &approval, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending reviewer: %w", err)
		}
		u.Role = Role(role)
		u.Approval = ApprovalStatus(approval)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// ApproveReviewer flips a pending reviewer to approved. Returns false
// if the user does not exist, is not a reviewer, or is already
// approved.
func (r *Repo) ApproveReviewer(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET approval_status = ?
		WHERE id = ? AND role = ? AND approval_status = ?
	`, string(ApprovalApproved), id, string(RoleReviewer), string(ApprovalPending))
	if err != nil {
		return false, fmt.Errorf("approve reviewer: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

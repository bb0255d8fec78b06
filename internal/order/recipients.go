package order

import (
	"context"
	"database/sql"
	"errors"
)

// Recipients resolves the notification address for an account. An empty
// string means no deliverable address; the engine simply skips the mail.
type Recipients interface {
	EmailFor(ctx context.Context, ownerID int64) (string, error)
}

type pgRecipients struct {
	db *sql.DB
}

func NewRecipients(db *sql.DB) Recipients {
	return &pgRecipients{db: db}
}

func (r *pgRecipients) EmailFor(ctx context.Context, ownerID int64) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `
		SELECT email FROM users WHERE id = $1
	`, ownerID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

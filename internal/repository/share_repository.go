package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
)

// ShareRepo persists public share links. Reads through a link bypass
// ownership entirely; the link id is the capability.
type ShareRepo struct{ DB *sql.DB }

func NewShareRepo(db *sql.DB) *ShareRepo { return &ShareRepo{DB: db} }

// Create inserts a share link for a plan, assigning its id. The password,
// when present, is stored as received; nothing reads it back on the public
// path (incomplete feature preserved from the product).
func (r *ShareRepo) Create(ctx context.Context, l *model.SharedWeekendLink) error {
	l.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO shared_weekend_links (id, weekend_id, expires_at, password, view_count) VALUES (?,?,?,?,0)",
		l.ID, l.WeekendID, l.ExpiresAt, l.Password)
	return err
}

// GetByID fetches a link and enforces expiry: links past expires_at come
// back as ErrLinkExpired even though the row (and the plan) still exist.
func (r *ShareRepo) GetByID(ctx context.Context, id string) (model.SharedWeekendLink, error) {
	var l model.SharedWeekendLink
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, weekend_id, expires_at, password, view_count FROM shared_weekend_links WHERE id=? LIMIT 1",
		id).Scan(&l.ID, &l.WeekendID, &l.ExpiresAt, &l.Password, &l.ViewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	if err != nil {
		return l, err
	}
	if l.ExpiresAt != nil && l.ExpiresAt.Before(time.Now().UTC()) {
		return l, ErrLinkExpired
	}
	return l, nil
}

// IncrementViews bumps the view counter in a single statement. Callers
// treat failures as non-fatal.
func (r *ShareRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE shared_weekend_links SET view_count = view_count + 1 WHERE id=?", id)
	return err
}

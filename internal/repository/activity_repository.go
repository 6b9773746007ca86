package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
)

// ActivityRepo persists the global activity catalog. Catalog entries are
// shared and ownerless: no user scoping applies on any operation.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

const activityColumns = "id, title, description, category, duration_min, icon, tags, is_premium, default_mood"

func scanActivity(s interface{ Scan(...any) error }) (model.Activity, error) {
	var a model.Activity
	var tags []byte
	err := s.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.DurationMin, &a.Icon, &tags, &a.IsPremium, &a.DefaultMood)
	if err != nil {
		return a, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &a.Tags); err != nil {
			return a, err
		}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// CatalogQuery carries the listing filters. Limit and Offset arrive
// already clamped by the handler (default 50, cap 200).
type CatalogQuery struct {
	Limit    int
	Offset   int
	Category string
	Search   string
}

// List returns one catalog page plus the total match count for the
// pagination envelope. Filters compose: category equality and a LIKE
// search over the title.
func (r *ActivityRepo) List(ctx context.Context, q CatalogQuery) ([]model.Activity, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if q.Category != "" {
		where += " AND category=?"
		args = append(args, q.Category)
	}
	if q.Search != "" {
		where += " AND title LIKE ?"
		args = append(args, "%"+q.Search+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activities"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]any{}, args...), q.Limit, q.Offset)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities"+where+" ORDER BY title LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Activity, 0, q.Limit)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// GetByID fetches a catalog entry.
func (r *ActivityRepo) GetByID(ctx context.Context, id string) (model.Activity, error) {
	a, err := scanActivity(r.DB.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// Create inserts a catalog entry, assigning its id.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	tags, err := marshalTags(a.Tags)
	if err != nil {
		return err
	}
	a.ID = uuid.NewString()
	if a.Tags == nil {
		a.Tags = []string{}
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO activities (id, title, description, category, duration_min, icon, tags, is_premium, default_mood) VALUES (?,?,?,?,?,?,?,?,?)",
		a.ID, a.Title, a.Description, a.Category, a.DurationMin, a.Icon, tags, a.IsPremium, a.DefaultMood)
	return err
}

// Update writes all mutable fields of a catalog entry.
func (r *ActivityRepo) Update(ctx context.Context, a *model.Activity) error {
	tags, err := marshalTags(a.Tags)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE activities SET title=?, description=?, category=?, duration_min=?, icon=?, tags=?, is_premium=?, default_mood=? WHERE id=?",
		a.Title, a.Description, a.Category, a.DurationMin, a.Icon, tags, a.IsPremium, a.DefaultMood, a.ID)
	return err
}

// Delete removes a catalog entry unconditionally.
func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM activities WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByMood returns catalog entries whose default mood matches, capped to
// the suggestion limit.
func (r *ActivityRepo) ListByMood(ctx context.Context, mood string, limit int) ([]model.Activity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE default_mood=? ORDER BY title LIMIT ?", mood, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

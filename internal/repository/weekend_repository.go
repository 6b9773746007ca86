package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
)

// WeekendRepo persists weekend plans and owns the transactional units of
// work that touch plans together with their day rows (create-with-days,
// duplicate).
type WeekendRepo struct{ DB *sql.DB }

func NewWeekendRepo(db *sql.DB) *WeekendRepo { return &WeekendRepo{DB: db} }

const planColumns = "id, user_id, title, mood, start_date, end_date, is_template, created_at"

func scanPlan(s interface{ Scan(...any) error }) (model.WeekendPlan, error) {
	var p model.WeekendPlan
	err := s.Scan(&p.ID, &p.UserID, &p.Title, &p.Mood, &p.StartDate, &p.EndDate, &p.IsTemplate, &p.CreatedAt)
	return p, err
}

// CreateWithDays inserts a plan and its initial day rows in one
// transaction. Ids are assigned here; the day structs are mutated in place
// with their generated ids and the new plan id.
func (r *WeekendRepo) CreateWithDays(ctx context.Context, p *model.WeekendPlan, days []model.DayInstance) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	p.ID = uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO weekend_plans (id, user_id, title, mood, start_date, end_date, is_template) VALUES (?,?,?,?,?,?,?)",
		p.ID, p.UserID, p.Title, p.Mood, p.StartDate, p.EndDate, p.IsTemplate); err != nil {
		return err
	}
	for i := range days {
		days[i].ID = uuid.NewString()
		days[i].WeekendPlanID = p.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO day_instances (id, weekend_plan_id, date, day_label, `order`, notes, color_theme) VALUES (?,?,?,?,?,?,?)",
			days[i].ID, p.ID, days[i].Date, days[i].DayLabel, days[i].Order, days[i].Notes, days[i].ColorTheme); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	// Read back for the DB-assigned created_at.
	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = created
	return nil
}

// GetByID fetches a plan regardless of owner. Used by the public share
// path; authenticated paths go through GetByIDAndOwner.
func (r *WeekendRepo) GetByID(ctx context.Context, id string) (model.WeekendPlan, error) {
	p, err := scanPlan(r.DB.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM weekend_plans WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// GetByIDAndOwner fetches a plan only when it belongs to the given user.
// Absence and foreign ownership are both ErrNotFound.
func (r *WeekendRepo) GetByIDAndOwner(ctx context.Context, id, userID string) (model.WeekendPlan, error) {
	p, err := scanPlan(r.DB.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM weekend_plans WHERE id=? AND user_id=? LIMIT 1", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// ListByOwner returns all plans for a user, newest first.
func (r *WeekendRepo) ListByOwner(ctx context.Context, userID string) ([]model.WeekendPlan, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+planColumns+" FROM weekend_plans WHERE user_id=? ORDER BY created_at DESC, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.WeekendPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update writes the patchable plan fields (title, mood, date range).
func (r *WeekendRepo) Update(ctx context.Context, p *model.WeekendPlan) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE weekend_plans SET title=?, mood=?, start_date=?, end_date=? WHERE id=?",
		p.Title, p.Mood, p.StartDate, p.EndDate, p.ID)
	return err
}

// SetMood updates only the mood tag.
func (r *WeekendRepo) SetMood(ctx context.Context, id string, mood *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE weekend_plans SET mood=? WHERE id=?", mood, id)
	return err
}

// Delete removes a plan owned by the user. Day and instance children go
// with it via the storage-layer cascade.
func (r *WeekendRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM weekend_plans WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Duplicate clones a source plan and its day rows under a new plan id in
// one transaction. Activity instances are not cloned: every duplicated day
// starts empty. The returned plan carries the " (Copy)" title suffix.
func (r *WeekendRepo) Duplicate(ctx context.Context, src model.WeekendPlan, days []model.DayInstance) (model.WeekendPlan, []model.DayInstance, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.WeekendPlan{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	clone := src
	clone.ID = uuid.NewString()
	clone.Title = src.Title + " (Copy)"
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO weekend_plans (id, user_id, title, mood, start_date, end_date, is_template) VALUES (?,?,?,?,?,?,?)",
		clone.ID, clone.UserID, clone.Title, clone.Mood, clone.StartDate, clone.EndDate, clone.IsTemplate); err != nil {
		return model.WeekendPlan{}, nil, err
	}

	cloned := make([]model.DayInstance, 0, len(days))
	for _, d := range days {
		nd := d
		nd.ID = uuid.NewString()
		nd.WeekendPlanID = clone.ID
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO day_instances (id, weekend_plan_id, date, day_label, `order`, notes, color_theme) VALUES (?,?,?,?,?,?,?)",
			nd.ID, nd.WeekendPlanID, nd.Date, nd.DayLabel, nd.Order, nd.Notes, nd.ColorTheme); err != nil {
			return model.WeekendPlan{}, nil, err
		}
		cloned = append(cloned, nd)
	}
	if err := tx.Commit(); err != nil {
		return model.WeekendPlan{}, nil, err
	}
	return clone, cloned, nil
}

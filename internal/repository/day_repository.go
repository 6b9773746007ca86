package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
)

// DayRepo persists day instances. Ownership lookups join through the
// parent plan so a day is only visible to the user that owns the plan.
type DayRepo struct{ DB *sql.DB }

func NewDayRepo(db *sql.DB) *DayRepo { return &DayRepo{DB: db} }

const dayColumns = "d.id, d.weekend_plan_id, d.date, d.day_label, d.`order`, d.notes, d.color_theme"

func scanDay(s interface{ Scan(...any) error }) (model.DayInstance, error) {
	var d model.DayInstance
	err := s.Scan(&d.ID, &d.WeekendPlanID, &d.Date, &d.DayLabel, &d.Order, &d.Notes, &d.ColorTheme)
	return d, err
}

// GetOwned is the ownership-chain verifier for days: it fetches the day
// joined through its parent plan's user_id and returns ErrNotFound when
// the row is absent or belongs to another user. Mutating handlers call
// this first and reuse the returned row.
func (r *DayRepo) GetOwned(ctx context.Context, dayID, userID string) (model.DayInstance, error) {
	d, err := scanDay(r.DB.QueryRowContext(ctx,
		"SELECT "+dayColumns+" FROM day_instances d"+
			" JOIN weekend_plans p ON p.id = d.weekend_plan_id"+
			" WHERE d.id=? AND p.user_id=? LIMIT 1", dayID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListByPlan returns a plan's days sorted ascending by the sparse order
// key. Equal orders come back in the store's own tie order.
func (r *DayRepo) ListByPlan(ctx context.Context, planID string) ([]model.DayInstance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+dayColumns+" FROM day_instances d WHERE d.weekend_plan_id=? ORDER BY d.`order`", planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDays(rows)
}

// ListByPlanIDs batch-loads days for many plans in a single query, for
// eager loading without an N+1 fan-out. Callers group the result by
// WeekendPlanID in memory.
func (r *DayRepo) ListByPlanIDs(ctx context.Context, planIDs []string) ([]model.DayInstance, error) {
	if len(planIDs) == 0 {
		return []model.DayInstance{}, nil
	}
	args := make([]any, len(planIDs))
	for i, id := range planIDs {
		args[i] = id
	}
	q := "SELECT " + dayColumns + " FROM day_instances d WHERE d.weekend_plan_id IN (?" +
		strings.Repeat(",?", len(planIDs)-1) + ") ORDER BY d.weekend_plan_id, d.`order`"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDays(rows)
}

func collectDays(rows *sql.Rows) ([]model.DayInstance, error) {
	out := []model.DayInstance{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create inserts a single day row, assigning its id.
func (r *DayRepo) Create(ctx context.Context, d *model.DayInstance) error {
	d.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO day_instances (id, weekend_plan_id, date, day_label, `order`, notes, color_theme) VALUES (?,?,?,?,?,?,?)",
		d.ID, d.WeekendPlanID, d.Date, d.DayLabel, d.Order, d.Notes, d.ColorTheme)
	return err
}

// Update writes the patchable day fields. Ownership has already been
// established by GetOwned.
func (r *DayRepo) Update(ctx context.Context, d *model.DayInstance) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE day_instances SET day_label=?, notes=?, color_theme=? WHERE id=?",
		d.DayLabel, d.Notes, d.ColorTheme, d.ID)
	return err
}

// Delete removes a day row. Instances cascade at the storage layer.
func (r *DayRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM day_instances WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

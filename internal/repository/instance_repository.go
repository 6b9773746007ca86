package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
)

// InstanceRepo persists activity instances. Ownership lookups walk the
// full chain instance -> day -> plan -> user in one join.
type InstanceRepo struct{ DB *sql.DB }

func NewInstanceRepo(db *sql.DB) *InstanceRepo { return &InstanceRepo{DB: db} }

const instanceColumns = "i.id, i.day_id, i.activity_id, i.`order`, i.start_time, i.end_time, i.notes, i.custom_mood, i.is_completed"

func scanInstance(s interface{ Scan(...any) error }) (model.ActivityInstance, error) {
	var a model.ActivityInstance
	err := s.Scan(&a.ID, &a.DayID, &a.ActivityID, &a.Order, &a.StartTime, &a.EndTime, &a.Notes, &a.CustomMood, &a.IsCompleted)
	return a, err
}

// GetOwned is the ownership-chain verifier for activity instances: the
// row comes back only when the transitive owner matches userID, otherwise
// ErrNotFound. Absence and foreign ownership are indistinguishable.
func (r *InstanceRepo) GetOwned(ctx context.Context, instanceID, userID string) (model.ActivityInstance, error) {
	a, err := scanInstance(r.DB.QueryRowContext(ctx,
		"SELECT "+instanceColumns+" FROM activity_instances i"+
			" JOIN day_instances d ON d.id = i.day_id"+
			" JOIN weekend_plans p ON p.id = d.weekend_plan_id"+
			" WHERE i.id=? AND p.user_id=? LIMIT 1", instanceID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// NextOrder computes the default order for a new sibling: the maximum
// existing order within the day plus one, or 0 when the day is empty.
// Gaps are preserved; max+1, not count.
func (r *InstanceRepo) NextOrder(ctx context.Context, dayID string) (int, error) {
	var max int
	err := r.DB.QueryRowContext(ctx,
		"SELECT i.`order` FROM activity_instances i WHERE i.day_id=? ORDER BY i.`order` DESC LIMIT 1",
		dayID).Scan(&max)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// ListByDay returns a day's instances sorted ascending by order.
func (r *InstanceRepo) ListByDay(ctx context.Context, dayID string) ([]model.ActivityInstance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+instanceColumns+" FROM activity_instances i WHERE i.day_id=? ORDER BY i.`order`", dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstances(rows)
}

// ListByDayIDs batch-loads instances for many days in one query.
func (r *InstanceRepo) ListByDayIDs(ctx context.Context, dayIDs []string) ([]model.ActivityInstance, error) {
	if len(dayIDs) == 0 {
		return []model.ActivityInstance{}, nil
	}
	args := make([]any, len(dayIDs))
	for i, id := range dayIDs {
		args[i] = id
	}
	q := "SELECT " + instanceColumns + " FROM activity_instances i WHERE i.day_id IN (?" +
		strings.Repeat(",?", len(dayIDs)-1) + ") ORDER BY i.day_id, i.`order`"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInstances(rows)
}

func collectInstances(rows *sql.Rows) ([]model.ActivityInstance, error) {
	out := []model.ActivityInstance{}
	for rows.Next() {
		a, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts an instance row, assigning its id.
func (r *InstanceRepo) Create(ctx context.Context, a *model.ActivityInstance) error {
	a.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO activity_instances (id, day_id, activity_id, `order`, start_time, end_time, notes, custom_mood, is_completed) VALUES (?,?,?,?,?,?,?,?,?)",
		a.ID, a.DayID, a.ActivityID, a.Order, a.StartTime, a.EndTime, a.Notes, a.CustomMood, a.IsCompleted)
	return err
}

// Update writes all mutable instance fields. Moves across days are plain
// updates of day_id plus order; no sibling renumbering ever happens.
func (r *InstanceRepo) Update(ctx context.Context, a *model.ActivityInstance) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE activity_instances SET day_id=?, `order`=?, start_time=?, end_time=?, notes=?, custom_mood=?, is_completed=? WHERE id=?",
		a.DayID, a.Order, a.StartTime, a.EndTime, a.Notes, a.CustomMood, a.IsCompleted, a.ID)
	return err
}

// Delete removes an instance row.
func (r *InstanceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM activity_instances WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

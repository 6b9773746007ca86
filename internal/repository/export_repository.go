package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
)

// ExportRepo persists export jobs. Jobs only ever hold the "queued"
// status; the row is the durable record, the queue message is advisory.
type ExportRepo struct{ DB *sql.DB }

func NewExportRepo(db *sql.DB) *ExportRepo { return &ExportRepo{DB: db} }

// Create inserts a queued job, assigning its id.
func (r *ExportRepo) Create(ctx context.Context, j *model.ExportJob) error {
	j.ID = uuid.NewString()
	j.Status = model.ExportStatusQueued
	if len(j.Options) == 0 {
		j.Options = []byte("{}")
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO export_jobs (id, user_id, weekend_plan_id, format, status, options) VALUES (?,?,?,?,?,?)",
		j.ID, j.UserID, j.WeekendPlanID, j.Format, j.Status, []byte(j.Options))
	return err
}

// GetByIDAndUser fetches a job only for its requesting user.
func (r *ExportRepo) GetByIDAndUser(ctx context.Context, id, userID string) (model.ExportJob, error) {
	var j model.ExportJob
	var options []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, weekend_plan_id, format, status, options, created_at FROM export_jobs WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&j.ID, &j.UserID, &j.WeekendPlanID, &j.Format, &j.Status, &options, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return j, ErrNotFound
	}
	j.Options = options
	return j, err
}

package model

import (
	"encoding/json"
	"time"
)

// ExportJob records a request to export a plan. Jobs are inserted with
// status "queued" and announced on the export queue; no further status
// transitions are implemented.
//
// Fields:
//  ID            – primary key identifier (UUID).
//  UserID        – requesting user.
//  WeekendPlanID – plan to export.
//  Format        – requested output format (e.g. "pdf", "image").
//  Status        – always "queued".
//  Options       – open JSON document of format-specific options.
type ExportJob struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	WeekendPlanID string          `json:"weekend_plan_id"`
	Format        string          `json:"format"`
	Status        string          `json:"status"`
	Options       json.RawMessage `json:"options"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExportStatusQueued is the only job status the system ever writes.
const ExportStatusQueued = "queued"

// Package queue defines message payloads exchanged over the broker and
// the background consumer that drains them.
package queue

// ExportQueueName is the durable queue carrying export announcements.
const ExportQueueName = "export.requested"

// ExportRequestedEvent is published when an export job has been queued.
// It carries enough for downstream consumers to log or render without
// querying the primary database.
type ExportRequestedEvent struct {
	JobID         string `json:"job_id"`
	UserID        string `json:"user_id"`
	WeekendPlanID string `json:"weekend_plan_id"`
	PlanTitle     string `json:"plan_title"`
	Format        string `json:"format"`
	RequestedAt   string `json:"requested_at"`
}

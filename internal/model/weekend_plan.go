package model

import "time"

// WeekendPlan is the top-level user-owned planning unit spanning a date
// range. A plan owns zero or more DayInstance children; deleting a plan
// cascades to its days at the storage layer. `start_date <= end_date` is
// expected but not enforced.
//
// Fields:
//  ID         – primary key identifier (UUID).
//  UserID     – owning user.
//  Title      – plan title, defaults to "My Weekend".
//  Mood       – optional free-text mood tag.
//  StartDate  – first calendar date, "YYYY-MM-DD".
//  EndDate    – last calendar date, inclusive.
//  IsTemplate – marks a plan as a reusable template.
type WeekendPlan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Mood       *string   `json:"mood"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	IsTemplate bool      `json:"is_template"`
	CreatedAt  time.Time `json:"created_at"`
}

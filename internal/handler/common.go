// Package handler contains the HTTP handlers. Pure helpers for identity
// extraction, day enumeration and order defaults live here so they can be
// exercised without a request in flight.
package handler

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
)

const dateLayout = "2006-01-02"

// errNoIdentity is returned when the JWT middleware did not run or the
// context value is malformed.
var errNoIdentity = errors.New("no user identity in context")

// userID extracts the authenticated user's id injected by the JWT
// middleware.
func userID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errNoIdentity
}

// enumerateDays builds the default day rows for a plan created without an
// explicit days list: one row per calendar date from start to end
// inclusive, labeled with the English weekday name, order 0,1,2,...
// An end date before the start yields no rows.
func enumerateDays(startDate, endDate string) ([]model.DayInstance, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, err
	}
	days := []model.DayInstance{}
	for d, i := start, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		days = append(days, model.DayInstance{
			Date:     d.Format(dateLayout),
			DayLabel: d.Weekday().String(),
			Order:    i,
		})
	}
	return days, nil
}

// validTimeRange reports whether an optional start/end pair is acceptable:
// a violation needs both ends present and start after end. "HH:MM" strings
// compare correctly as text.
func validTimeRange(start, end *string) bool {
	if start != nil && end != nil && *start > *end {
		return false
	}
	return true
}

// dayWithInstances and planWithDays are the nested read projections: a
// plan's days sorted ascending by order, each carrying its instances.
type dayWithInstances struct {
	model.DayInstance
	Activities []model.ActivityInstance `json:"activities"`
}

type planWithDays struct {
	model.WeekendPlan
	Days []dayWithInstances `json:"days"`
}

// nestInstances attaches instances to their parent days, preserving the
// already-sorted day and instance order.
func nestInstances(days []model.DayInstance, instances []model.ActivityInstance) []dayWithInstances {
	byDay := make(map[string][]model.ActivityInstance, len(days))
	for _, a := range instances {
		byDay[a.DayID] = append(byDay[a.DayID], a)
	}
	out := make([]dayWithInstances, 0, len(days))
	for _, d := range days {
		acts := byDay[d.ID]
		if acts == nil {
			acts = []model.ActivityInstance{}
		}
		out = append(out, dayWithInstances{DayInstance: d, Activities: acts})
	}
	return out
}

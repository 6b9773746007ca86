package model

// DayInstance is one calendar day within a weekend plan, holding an
// ordered list of activity instances. Order is a sparse integer sort key:
// gaps and duplicate values among siblings are permitted and never
// renumbered.
//
// Fields:
//  ID            – primary key identifier (UUID).
//  WeekendPlanID – parent plan.
//  Date          – calendar date, "YYYY-MM-DD".
//  DayLabel      – human label, defaults to "Day" (auto-enumerated days get
//                  the English weekday name).
//  Order         – sibling sort key within the plan, ascending.
//  Notes         – optional free text.
//  ColorTheme    – optional display theme.
type DayInstance struct {
	ID            string  `json:"id"`
	WeekendPlanID string  `json:"weekend_plan_id"`
	Date          string  `json:"date"`
	DayLabel      string  `json:"day_label"`
	Order         int     `json:"order"`
	Notes         *string `json:"notes"`
	ColorTheme    *string `json:"color_theme"`
}

package model

// Activity is a reusable catalog entry shared across all users. The
// catalog is global and ownerless: any authenticated caller may create,
// update or delete entries.
//
// Fields:
//  ID          – primary key identifier (UUID).
//  Title       – activity name.
//  Description – optional longer text.
//  Category    – grouping key.
//  DurationMin – typical duration in minutes, must be > 0.
//  Icon        – optional icon name for the client.
//  Tags        – ordered list of free-text tags.
//  IsPremium   – premium flag, stored but not enforced anywhere.
//  DefaultMood – optional mood tag used by suggestion lookups.
type Activity struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	DurationMin int      `json:"duration_min"`
	Icon        *string  `json:"icon"`
	Tags        []string `json:"tags"`
	IsPremium   bool     `json:"is_premium"`
	DefaultMood *string  `json:"default_mood"`
}

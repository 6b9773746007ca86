package model

// ActivityInstance is a scheduled occurrence of a catalog Activity on a
// specific day. Start and end times are optional "HH:MM" strings; when both
// are present start must not be after end. Order follows the same sparse
// integer scheme as days.
//
// Fields:
//  ID          – primary key identifier (UUID).
//  DayID       – parent day instance.
//  ActivityID  – referenced catalog activity.
//  Order       – sibling sort key within the day, ascending.
//  StartTime   – optional start of the slot, "HH:MM".
//  EndTime     – optional end of the slot, "HH:MM".
//  Notes       – optional free text.
//  CustomMood  – optional override of the catalog activity's default mood.
//  IsCompleted – completion flag, toggled between false and true.
type ActivityInstance struct {
	ID          string  `json:"id"`
	DayID       string  `json:"day_id"`
	ActivityID  string  `json:"activity_id"`
	Order       int     `json:"order"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Notes       *string `json:"notes"`
	CustomMood  *string `json:"custom_mood"`
	IsCompleted bool    `json:"is_completed"`
}

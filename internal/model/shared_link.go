package model

import "time"

// SharedWeekendLink grants read-only, unauthenticated access to a plan's
// public projection until expiry. The password column is stored but never
// validated on read; the feature is incomplete in the product and kept
// as-is.
//
// Fields:
//  ID        – link token, also the public URL segment (UUID).
//  WeekendID – the shared plan.
//  ExpiresAt – optional expiry; nil means the link never expires.
//  Password  – optional plaintext password (stored, unused on read).
//  ViewCount – best-effort read counter.
type SharedWeekendLink struct {
	ID        string     `json:"id"`
	WeekendID string     `json:"weekend_id"`
	ExpiresAt *time.Time `json:"expires_at"`
	Password  *string    `json:"-"`
	ViewCount int        `json:"view_count"`
}

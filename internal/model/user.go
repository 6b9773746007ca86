package model

import (
	"encoding/json"
	"time"
)

// User represents an application user record as stored in the `users`
// table. Response serialization uses the persisted snake_case names; the
// password hash and stored refresh-token hash never leave the server.
//
// Fields:
//  ID           – primary key identifier (UUID).
//  Email        – unique email address.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  RefreshToken – SHA-256 hex of the single active refresh token, nil when
//                 logged out.
//  Preferences  – open JSON document owned by the client.
type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"`
	RefreshToken *string         `json:"-"`
	Preferences  json.RawMessage `json:"preferences"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

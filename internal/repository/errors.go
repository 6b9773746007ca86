// Package repository holds the data access layer. Sentinel errors defined
// here let handlers map storage outcomes onto HTTP statuses without
// inspecting driver errors. Ownership failures surface as the same
// not-found sentinel as genuine absence: callers must not be able to tell
// whether a resource exists under another user.
package repository

import "errors"

// ErrNotFound is returned when a row is absent or when it exists but is
// not transitively owned by the caller. Handlers translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned on duplicate user registration. Handlers
// translate this into 409.
var ErrEmailExists = errors.New("email already exists")

// ErrLinkExpired is returned when a shared link is past its expiry.
// Handlers translate this into 410.
var ErrLinkExpired = errors.New("share link expired")

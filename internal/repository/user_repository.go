package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, email, name, password_hash, refresh_token, preferences, created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.RefreshToken, &u.Preferences, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user with a hashed password and empty preferences,
// returning the new id. Duplicate emails map to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, preferences) VALUES (?,?,?,?,?)",
		id, email, name, hash, "{}")
	if err != nil {
		// MySQL error 1062: duplicate entry on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email. Misses map to ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByRefreshHash resolves the user holding the given refresh-token hash.
// Only one token is active per user, so the hash is looked up directly on
// the user row. Misses map to ErrNotFound.
func (r *UserRepo) GetByRefreshHash(ctx context.Context, hash string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE refresh_token=? LIMIT 1", hash))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// SetRefreshHash stores the hash of the active refresh token, replacing
// any previous one. Pass nil to clear it (logout).
func (r *UserRepo) SetRefreshHash(ctx context.Context, userID string, hash *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", hash, userID)
	return err
}

// UpdatePreferences replaces the user's preferences document verbatim.
func (r *UserRepo) UpdatePreferences(ctx context.Context, userID string, prefs []byte) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET preferences=? WHERE id=?", prefs, userID)
	return err
}

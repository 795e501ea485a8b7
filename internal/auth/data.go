package auth

import (
	"context"
	"database/sql"
	"errors"

	"DietAPI/internal/diet"
)

// Repository provides access to auth-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// --- User Operations ---

const userColumns = `id, email, display_name, blood_type, role, status, max_tokens, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var bloodType sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &bloodType, &u.Role, &u.Status, &u.MaxTokens, &u.CreatedAt); err != nil {
		return nil, err
	}
	if bloodType.Valid {
		u.BloodType = diet.BloodType(bloodType.String)
	}
	return &u, nil
}

// GetUserByID returns a user by ID, or nil when there is none
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetUserByEmail returns a user by email, or nil when there is none
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetAllUsers returns all users with pagination
func (r *Repository) GetAllUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, email, displayName string, maxTokens int) (*User, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, display_name, max_tokens) VALUES (?, ?, ?)
	`, email, displayName, maxTokens)
	if err != nil {
		return nil, err
	}
	id, _ := result.LastInsertId()
	return r.GetUserByID(ctx, id)
}

// UpdateProfile changes the fields a user controls themselves
func (r *Repository) UpdateProfile(ctx context.Context, id int64, displayName *string, bloodType *diet.BloodType) error {
	if displayName != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET display_name = ? WHERE id = ?", *displayName, id); err != nil {
			return err
		}
	}
	if bloodType != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET blood_type = ? WHERE id = ?", string(*bloodType), id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateUser updates the admin-controlled user fields
func (r *Repository) UpdateUser(ctx context.Context, id int64, role *Role, status *Status, maxTokens *int) error {
	if role != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", *role, id); err != nil {
			return err
		}
	}
	if status != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET status = ? WHERE id = ?", *status, id); err != nil {
			return err
		}
	}
	if maxTokens != nil {
		if _, err := r.db.ExecContext(ctx, "UPDATE users SET max_tokens = ? WHERE id = ?", *maxTokens, id); err != nil {
			return err
		}
	}
	return nil
}

// GetUserTokenCount returns the number of active tokens for a user
func (r *Repository) GetUserTokenCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tokens
		WHERE user_id = ? AND revoked_at IS NULL
	`, userID).Scan(&count)
	return count, err
}

// --- OAuth Identity Operations ---

// GetOAuthIdentity returns an OAuth identity by provider and provider ID
func (r *Repository) GetOAuthIdentity(ctx context.Context, provider Provider, providerID string) (*OAuthIdentity, error) {
	var o OAuthIdentity
	var accessToken, refreshToken sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, provider, provider_id, access_token, refresh_token, created_at
		FROM oauth_identities
		WHERE provider = ? AND provider_id = ?
	`, provider, providerID).Scan(&o.ID, &o.UserID, &o.Provider, &o.ProviderID, &accessToken, &refreshToken, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.AccessToken = ScanNullableString(accessToken)
	o.RefreshToken = ScanNullableString(refreshToken)
	return &o, nil
}

// CreateOAuthIdentity links a provider account to a user
func (r *Repository) CreateOAuthIdentity(ctx context.Context, userID int64, provider Provider, providerID, accessToken, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO oauth_identities (user_id, provider, provider_id, access_token, refresh_token)
		VALUES (?, ?, ?, ?, ?)
	`, userID, provider, providerID, accessToken, refreshToken)
	return err
}

// UpdateOAuthIdentityTokens updates the tokens for an OAuth identity
func (r *Repository) UpdateOAuthIdentityTokens(ctx context.Context, id int64, accessToken, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE oauth_identities SET access_token = ?, refresh_token = ? WHERE id = ?
	`, accessToken, refreshToken, id)
	return err
}

/*
This project is the backend API for the OpenSourceDUTH diet planner app.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package auth

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/mr-tron/base58"
)

const (
	// OAuthStateExpiry is how long an OAuth state is valid
	OAuthStateExpiry = 10 * time.Minute
)

// OAuthStateStore manages OAuth CSRF state tokens
type OAuthStateStore struct {
	repo *Repository
}

// NewOAuthStateStore creates a new OAuth state store
func NewOAuthStateStore(repo *Repository) *OAuthStateStore {
	return &OAuthStateStore{repo: repo}
}

// CreateState stores and returns a random single-use state token
func (s *OAuthStateStore) CreateState(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base58.Encode(buf)

	_, err := s.repo.db.ExecContext(ctx, `
		INSERT INTO oauth_states (state, expires_at) VALUES (?, ?)
	`, state, time.Now().UTC().Add(OAuthStateExpiry))
	if err != nil {
		return "", err
	}
	return state, nil
}

// ValidateState consumes state; it reports false for unknown or expired ones
func (s *OAuthStateStore) ValidateState(ctx context.Context, state string) (bool, error) {
	result, err := s.repo.db.ExecContext(ctx, `
		DELETE FROM oauth_states
		WHERE state = ? AND expires_at > ?
	`, state, time.Now().UTC())
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// CleanupExpiredStates removes all expired state tokens and reports how many
func (s *OAuthStateStore) CleanupExpiredStates(ctx context.Context) (int64, error) {
	res, err := s.repo.db.ExecContext(ctx, `
		DELETE FROM oauth_states WHERE expires_at <= ?
	`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
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

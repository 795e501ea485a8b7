package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

const (
	// TokenPrefix is the prefix for all generated tokens
	TokenPrefix = "dtp_"
)

// TokenStore manages API token operations
type TokenStore struct {
	repo *Repository
}

// NewTokenStore creates a new token store
func NewTokenStore(repo *Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

// GenerateToken creates a new random token with the dtp_ prefix
// Format: dtp_ + Base58(SHA256(random_bytes))
func GenerateToken() (rawToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	hash := sha256.Sum256(randomBytes)
	rawToken = TokenPrefix + base58.Encode(hash[:])
	return rawToken, hashToken(rawToken), nil
}

// hashToken creates a SHA256 hash of a token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CreateUserToken issues a token for userID, honouring the user's max_tokens limit
func (s *TokenStore) CreateUserToken(ctx context.Context, userID int64, label string, expiresAt *time.Time) (*TokenWithRaw, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("token label is required")
	}
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return nil, fmt.Errorf("token expiry must be in the future")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	count, err := s.repo.GetUserTokenCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= user.MaxTokens {
		return nil, fmt.Errorf("%w (%d)", ErrTokenLimit, user.MaxTokens)
	}

	rawToken, tokenHash, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	var expiry *time.Time
	if expiresAt != nil {
		t := expiresAt.UTC()
		expiry = &t
	}
	now := time.Now().UTC()
	result, err := s.repo.db.ExecContext(ctx, `
		INSERT INTO tokens (user_id, token_hash, label, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, tokenHash, label, expiry, now)
	if err != nil {
		return nil, err
	}
	tokenID, _ := result.LastInsertId()

	return &TokenWithRaw{
		Token: Token{
			ID:        tokenID,
			UserID:    userID,
			Label:     label,
			ExpiresAt: expiry,
			CreatedAt: now,
		},
		RawToken: rawToken,
	}, nil
}

// ValidateToken resolves a raw bearer token to its token row and active user
func (s *TokenStore) ValidateToken(ctx context.Context, rawToken string) (*ValidatedToken, error) {
	if !strings.HasPrefix(rawToken, TokenPrefix) {
		return nil, ErrInvalidToken
	}

	var t Token
	var expiresAt, revokedAt sql.NullTime
	err := s.repo.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, label, expires_at, revoked_at, created_at
		FROM tokens WHERE token_hash = ?
	`, hashToken(rawToken)).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Label, &expiresAt, &revokedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	t.ExpiresAt = ScanNullableTime(expiresAt)
	t.RevokedAt = ScanNullableTime(revokedAt)

	if t.RevokedAt != nil {
		return nil, ErrTokenRevoked
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if user.Status != StatusActive {
		return nil, fmt.Errorf("%w: account is %s", ErrInactiveUser, user.Status)
	}

	return &ValidatedToken{Token: &t, User: user}, nil
}

// ListUserTokens returns all tokens for a user (without raw values)
func (s *TokenStore) ListUserTokens(ctx context.Context, userID int64) ([]Token, error) {
	rows, err := s.repo.db.QueryContext(ctx, `
		SELECT id, user_id, label, expires_at, revoked_at, created_at
		FROM tokens WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := []Token{}
	for rows.Next() {
		var t Token
		var expiresAt, revokedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Label, &expiresAt, &revokedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ExpiresAt = ScanNullableTime(expiresAt)
		t.RevokedAt = ScanNullableTime(revokedAt)
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// RevokeToken revokes a token (user can only revoke their own tokens)
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID int64, userID int64) error {
	result, err := s.repo.db.ExecContext(ctx, `
		UPDATE tokens SET revoked_at = ?
		WHERE id = ? AND user_id = ? AND revoked_at IS NULL
	`, time.Now().UTC(), tokenID, userID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// AdminRevokeToken revokes any token (admin use)
func (s *TokenStore) AdminRevokeToken(ctx context.Context, tokenID int64) error {
	result, err := s.repo.db.ExecContext(ctx, `
		UPDATE tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL
	`, time.Now().UTC(), tokenID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrTokenNotFound
	}
	return nil
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

package auth

import (
	"database/sql"
	"errors"
	"time"

	"DietAPI/internal/diet"
)

// Role represents user permission levels
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status represents user account status
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// Provider represents OAuth providers
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenRevoked  = errors.New("token has been revoked")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenLimit    = errors.New("maximum token limit reached")
	ErrTokenNotFound = errors.New("token not found or already revoked")
	ErrInactiveUser  = errors.New("user account is not active")
)

// User is the identity the planner works for. BloodType stays empty until
// the user picks one.
type User struct {
	ID          int64          `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	BloodType   diet.BloodType `json:"bloodType,omitempty"`
	Role        Role           `json:"role"`
	Status      Status         `json:"status"`
	MaxTokens   int            `json:"maxTokens"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// OAuthIdentity links a user to an OAuth provider
type OAuthIdentity struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Provider     Provider  `json:"provider"`
	ProviderID   string    `json:"providerId"`
	AccessToken  *string   `json:"-"` // Never expose in JSON
	RefreshToken *string   `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents a server-side user session
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Token represents an API token
type Token struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	TokenHash string     `json:"-"` // Never expose
	Label     string     `json:"label"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TokenWithRaw includes the raw token value (only returned on creation)
type TokenWithRaw struct {
	Token
	RawToken string `json:"token"`
}

// TokenCreateRequest represents the request body for creating a token
type TokenCreateRequest struct {
	Label     string     `json:"label" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// ProfileUpdateRequest is what a user may change about themselves. The blood
// type accepts the legacy ABO-only spelling as well.
type ProfileUpdateRequest struct {
	DisplayName *string `json:"displayName"`
	BloodType   *string `json:"bloodType"`
}

// UserUpdateRequest represents the request body for an admin updating a user
type UserUpdateRequest struct {
	Role      *Role   `json:"role"`
	Status    *Status `json:"status"`
	MaxTokens *int    `json:"maxTokens"`
}

// ValidatedToken holds the result of token validation
type ValidatedToken struct {
	Token *Token
	User  *User
}

// ScanNullableString helper for scanning nullable string
func ScanNullableString(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// ScanNullableTime helper for scanning nullable time
func ScanNullableTime(n sql.NullTime) *time.Time {
	if n.Valid {
		return &n.Time
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

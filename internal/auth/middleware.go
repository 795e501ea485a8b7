package auth

import (
	"errors"
	"net/http"
	"strings"

	"DietAPI/internal/common"
	"DietAPI/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Context keys
	ContextKeyUser  = "auth_user"
	ContextKeyToken = "auth_token"

	// Headers
	HeaderAuthorization = "Authorization"
)

// Middleware provides authentication and authorization middleware
type Middleware struct {
	tokenStore   *TokenStore
	sessionStore *SessionStore
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokenStore *TokenStore, sessionStore *SessionStore) *Middleware {
	return &Middleware{
		tokenStore:   tokenStore,
		sessionStore: sessionStore,
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// ok is false when no Authorization header was sent at all.
func bearerToken(c *gin.Context) (token string, ok bool, err error) {
	header := c.GetHeader(HeaderAuthorization)
	if header == "" {
		return "", false, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", true, errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), true, nil
}

// RequireSession returns a middleware that validates session cookies
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := m.sessionStore.GetSessionFromCookie(c)
		if err != nil {
			common.AbortFail(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := m.sessionStore.GetUserFromSession(c.Request.Context(), sessionID)
		if err != nil || user == nil {
			m.sessionStore.ClearSessionCookie(c)
			common.AbortFail(c, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		if user.Status != StatusActive {
			m.sessionStore.ClearSessionCookie(c)
			common.AbortFail(c, http.StatusForbidden, "account is "+string(user.Status))
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireUser accepts either a bearer API token or a session cookie. A
// request that sends an Authorization header is judged on the token alone.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	session := m.RequireSession()
	return func(c *gin.Context) {
		raw, present, err := bearerToken(c)
		if !present {
			session(c)
			return
		}
		if err != nil {
			common.AbortFail(c, http.StatusUnauthorized, err.Error())
			return
		}

		validated, err := m.tokenStore.ValidateToken(c.Request.Context(), raw)
		if err != nil {
			switch {
			case errors.Is(err, ErrInactiveUser):
				common.AbortFail(c, http.StatusForbidden, err.Error())
			case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenRevoked), errors.Is(err, ErrTokenExpired):
				common.AbortFail(c, http.StatusUnauthorized, err.Error())
			default:
				logger.Error("token validation failed", zap.Error(err), zap.String("request_id", common.GetRequestID(c)))
				common.AbortFail(c, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		c.Set(ContextKeyUser, validated.User)
		c.Set(ContextKeyToken, validated.Token)
		c.Next()
	}
}

// RequireRole returns a middleware that checks if the user has the required role
func (m *Middleware) RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUserFromContext(c)
		if user == nil {
			common.AbortFail(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		if user.Role != role && user.Role != RoleAdmin {
			common.AbortFail(c, http.StatusForbidden, "requires "+string(role)+" role")
			return
		}
		c.Next()
	}
}

// OptionalUser loads the user from a token or session when there is one and
// never rejects the request.
func (m *Middleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if raw, present, err := bearerToken(c); present {
			if err == nil {
				if validated, err := m.tokenStore.ValidateToken(ctx, raw); err == nil {
					c.Set(ContextKeyUser, validated.User)
					c.Set(ContextKeyToken, validated.Token)
				}
			}
			c.Next()
			return
		}

		if sessionID, err := m.sessionStore.GetSessionFromCookie(c); err == nil {
			user, err := m.sessionStore.GetUserFromSession(ctx, sessionID)
			if err == nil && user != nil && user.Status == StatusActive {
				c.Set(ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *User {
	userVal, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := userVal.(*User)
	if !ok {
		return nil
	}
	return user
}

// GetTokenFromContext retrieves the validated token from the context
func GetTokenFromContext(c *gin.Context) *Token {
	tokenVal, exists := c.Get(ContextKeyToken)
	if !exists {
		return nil
	}
	token, ok := tokenVal.(*Token)
	if !ok {
		return nil
	}
	return token
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

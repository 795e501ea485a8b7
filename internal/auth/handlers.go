package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"DietAPI/internal/common"
	"DietAPI/internal/diet"
	"DietAPI/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	OAuthStateCookieName = "dietplanner_oauth_state"

	// DefaultMaxTokens is the token allowance of a newly registered user
	DefaultMaxTokens = 5
)

// Handler handles authentication endpoints
type Handler struct {
	repo         *Repository
	oauthConfig  *OAuthConfig
	stateStore   *OAuthStateStore
	sessionStore *SessionStore
	tokenStore   *TokenStore
	maxTokens    int
}

// NewHandler creates a new auth handler. maxTokens is the allowance given
// to users on first login.
func NewHandler(
	repo *Repository,
	oauthConfig *OAuthConfig,
	stateStore *OAuthStateStore,
	sessionStore *SessionStore,
	tokenStore *TokenStore,
	maxTokens int,
) *Handler {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Handler{
		repo:         repo,
		oauthConfig:  oauthConfig,
		stateStore:   stateStore,
		sessionStore: sessionStore,
		tokenStore:   tokenStore,
		maxTokens:    maxTokens,
	}
}

// internalError logs err and answers with a generic 500
func internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, zap.Error(err), zap.String("request_id", common.GetRequestID(c)))
	common.Fail(c, http.StatusInternalServerError, msg)
}

// Login initiates OAuth flow
// GET /auth/login/:provider
func (h *Handler) Login(c *gin.Context) {
	provider, err := ParseProvider(c.Param("provider"))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "unsupported provider")
		return
	}
	if !h.oauthConfig.IsProviderConfigured(provider) {
		common.Fail(c, http.StatusBadRequest, "provider not configured")
		return
	}

	state, err := h.stateStore.CreateState(c.Request.Context())
	if err != nil {
		internalError(c, "failed to create auth state", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(OAuthStateCookieName, state, int(OAuthStateExpiry.Seconds()), "/", "", h.sessionStore.secureCookie, true)

	authURL, err := h.oauthConfig.GetAuthURL(provider, state)
	if err != nil {
		internalError(c, "failed to create auth URL", err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles OAuth callback
// GET /auth/callback/:provider
func (h *Handler) Callback(c *gin.Context) {
	provider, err := ParseProvider(c.Param("provider"))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "unsupported provider")
		return
	}
	ctx := c.Request.Context()

	// The state must match the cookie and still be on file
	queryState := c.Query("state")
	cookieState, err := c.Cookie(OAuthStateCookieName)
	if err != nil || cookieState == "" {
		common.Fail(c, http.StatusBadRequest, "missing OAuth state cookie")
		return
	}
	if queryState != cookieState {
		common.Fail(c, http.StatusBadRequest, "OAuth state mismatch")
		return
	}
	valid, err := h.stateStore.ValidateState(ctx, queryState)
	if err != nil || !valid {
		common.Fail(c, http.StatusBadRequest, "invalid or expired OAuth state")
		return
	}
	c.SetCookie(OAuthStateCookieName, "", -1, "/", "", h.sessionStore.secureCookie, true)

	if errMsg := c.Query("error"); errMsg != "" {
		common.Fail(c, http.StatusBadRequest, "OAuth error: "+errMsg)
		return
	}
	code := c.Query("code")
	if code == "" {
		common.Fail(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauthConfig.ExchangeCode(ctx, provider, code)
	if err != nil {
		internalError(c, "failed to exchange code", err)
		return
	}
	userInfo, err := h.oauthConfig.GetUserInfo(ctx, provider, token)
	if err != nil {
		internalError(c, "failed to get user info", err)
		return
	}

	user, err := h.findOrCreateUser(ctx, userInfo, provider, token.AccessToken, token.RefreshToken)
	if err != nil {
		internalError(c, "failed to create user", err)
		return
	}
	if user.Status != StatusActive {
		common.Fail(c, http.StatusForbidden, "account is "+string(user.Status))
		return
	}

	session, err := h.sessionStore.CreateSession(ctx, user.ID)
	if err != nil {
		internalError(c, "failed to create session", err)
		return
	}
	h.sessionStore.SetSessionCookie(c, session.ID)

	logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("provider", string(provider)))
	common.OK(c, http.StatusOK, gin.H{
		"message": "authenticated successfully",
		"user":    user,
	})
}

func (h *Handler) findOrCreateUser(ctx context.Context, info *OAuthUserInfo, provider Provider, accessToken, refreshToken string) (*User, error) {
	identity, err := h.repo.GetOAuthIdentity(ctx, provider, info.ProviderID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		if err := h.repo.UpdateOAuthIdentityTokens(ctx, identity.ID, accessToken, refreshToken); err != nil {
			return nil, err
		}
		return h.repo.GetUserByID(ctx, identity.UserID)
	}

	// Link the provider to an existing account with the same email
	user, err := h.repo.GetUserByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if user, err = h.repo.CreateUser(ctx, info.Email, info.DisplayName, h.maxTokens); err != nil {
			return nil, err
		}
	}

	if err := h.repo.CreateOAuthIdentity(ctx, user.ID, provider, info.ProviderID, accessToken, refreshToken); err != nil {
		return nil, err
	}
	return h.repo.GetUserByID(ctx, user.ID)
}

// Me returns the current authenticated user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	common.OK(c, http.StatusOK, gin.H{"user": user})
}

// UpdateMe changes the display name and/or blood type of the current user
// PATCH /auth/me
func (h *Handler) UpdateMe(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var displayName *string
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			common.Fail(c, http.StatusBadRequest, "display name must not be empty")
			return
		}
		displayName = &name
	}

	var bloodType *diet.BloodType
	if req.BloodType != nil {
		bt, err := diet.ParseBloodType(*req.BloodType)
		if err != nil {
			common.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		bloodType = &bt
	}

	ctx := c.Request.Context()
	if err := h.repo.UpdateProfile(ctx, user.ID, displayName, bloodType); err != nil {
		internalError(c, "failed to update profile", err)
		return
	}
	updated, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil || updated == nil {
		internalError(c, "failed to load profile", err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"user": updated})
}

// Logout logs out the current user
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	sessionID, err := h.sessionStore.GetSessionFromCookie(c)
	if err == nil && sessionID != "" {
		if err := h.sessionStore.DeleteSession(c.Request.Context(), sessionID); err != nil {
			internalError(c, "failed to delete session", err)
			return
		}
	}
	h.sessionStore.ClearSessionCookie(c)

	common.OK(c, http.StatusOK, gin.H{"message": "logged out successfully"})
}

// ListTokens returns all tokens for the current user
// GET /auth/tokens
func (h *Handler) ListTokens(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	tokens, err := h.tokenStore.ListUserTokens(c.Request.Context(), user.ID)
	if err != nil {
		internalError(c, "failed to list tokens", err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"tokens": tokens})
}

// CreateToken creates a new token for the current user
// POST /auth/tokens
func (h *Handler) CreateToken(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req TokenCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.tokenStore.CreateUserToken(c.Request.Context(), user.ID, req.Label, req.ExpiresAt)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	common.OK(c, http.StatusCreated, gin.H{
		"token":   token.RawToken,
		"details": token.Token,
		"message": "Token created. Save this token now - it will not be shown again.",
	})
}

// RevokeToken revokes a token owned by the current user
// DELETE /auth/tokens/:id
func (h *Handler) RevokeToken(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	tokenID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid token ID")
		return
	}

	if err := h.tokenStore.RevokeToken(c.Request.Context(), tokenID, user.ID); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			common.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		internalError(c, "failed to revoke token", err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"message": "token revoked successfully"})
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

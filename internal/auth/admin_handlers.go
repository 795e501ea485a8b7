package auth

import (
	"errors"
	"net/http"
	"strconv"

	"DietAPI/internal/common"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	repo         *Repository
	tokenStore   *TokenStore
	sessionStore *SessionStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *Repository, tokenStore *TokenStore, sessionStore *SessionStore) *AdminHandler {
	return &AdminHandler{
		repo:         repo,
		tokenStore:   tokenStore,
		sessionStore: sessionStore,
	}
}

func parseID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

// --- User Management ---

// ListUsers returns all users with pagination
// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	users, err := h.repo.GetAllUsers(c.Request.Context(), limit, offset)
	if err != nil {
		internalError(c, "failed to list users", err)
		return
	}

	common.OK(c, http.StatusOK, gin.H{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

// GetUser returns a user by ID
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), id)
	if err != nil {
		internalError(c, "failed to get user", err)
		return
	}
	if user == nil {
		common.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	common.OK(c, http.StatusOK, gin.H{"user": user})
}

// UpdateUser changes role, status or token allowance. Suspending
// a user ends all of their sessions.
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role != nil && *req.Role != RoleUser && *req.Role != RoleAdmin {
		common.Fail(c, http.StatusBadRequest, "invalid role")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		common.Fail(c, http.StatusBadRequest, "invalid status")
		return
	}
	if req.MaxTokens != nil && *req.MaxTokens < 0 {
		common.Fail(c, http.StatusBadRequest, "maxTokens must not be negative")
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		internalError(c, "failed to get user", err)
		return
	}
	if existing == nil {
		common.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	if err := h.repo.UpdateUser(ctx, id, req.Role, req.Status, req.MaxTokens); err != nil {
		internalError(c, "failed to update user", err)
		return
	}
	if req.Status != nil && *req.Status != StatusActive {
		if err := h.sessionStore.DeleteUserSessions(ctx, id); err != nil {
			internalError(c, "failed to end user sessions", err)
			return
		}
	}

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		internalError(c, "failed to get user", err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"user": user})
}

// --- Token Management ---

// ListUserTokens returns all tokens for a user (admin)
// GET /admin/users/:id/tokens
func (h *AdminHandler) ListUserTokens(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	tokens, err := h.tokenStore.ListUserTokens(c.Request.Context(), id)
	if err != nil {
		internalError(c, "failed to list tokens", err)
		return
	}

	common.OK(c, http.StatusOK, gin.H{"tokens": tokens})
}

// RevokeToken revokes any token (admin)
// DELETE /admin/tokens/:id
func (h *AdminHandler) RevokeToken(c *gin.Context) {
	id, ok := parseID(c, "token")
	if !ok {
		return
	}

	if err := h.tokenStore.AdminRevokeToken(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			common.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		internalError(c, "failed to revoke token", err)
		return
	}

	common.OK(c, http.StatusOK, gin.H{"message": "token revoked"})
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

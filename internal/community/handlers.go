package community

import (
	"net/http"
	"strconv"

	"DietAPI/internal/auth"
	"DietAPI/internal/common"
	"DietAPI/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ShareRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type RateRequest struct {
	Score int `json:"score" binding:"required"`
}

type Handler struct {
	svc      *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(svc *Service, hub *Hub) *Handler {
	return &Handler{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func author(c *gin.Context) Author {
	user := auth.GetUserFromContext(c)
	return Author{UserID: user.ID, Name: user.DisplayName}
}

// PostShare publishes the plan in :id
func (h *Handler) PostShare(c *gin.Context) {
	var req ShareRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	shared, err := h.svc.Share(c.Request.Context(), author(c), c.Param("id"), req.Title, req.Description)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusCreated, shared)
}

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// ListShared pages through the feed. A missing or invalid limit means 20,
// anything above 100 is capped.
func (h *Handler) ListShared(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultFeedLimit
	}
	limit = min(limit, maxFeedLimit)
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	feed, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"plans": feed, "limit": limit, "offset": offset})
}

func (h *Handler) GetShared(c *gin.Context) {
	shared, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, shared)
}

func (h *Handler) DeleteShared(c *gin.Context) {
	if err := h.svc.Unshare(c.Request.Context(), author(c), c.Param("id")); err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"message": "plan unshared"})
}

func (h *Handler) PostComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	comment, err := h.svc.Comment(c.Request.Context(), author(c), c.Param("id"), req.Content)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusCreated, comment)
}

func (h *Handler) PutRating(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	shared, err := h.svc.Rate(c.Request.Context(), author(c), c.Param("id"), req.Score)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, shared)
}

// Feed upgrades to a websocket that receives every community event.
// Anonymous readers are allowed.
func (h *Handler) Feed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	var userID int64
	if user := auth.GetUserFromContext(c); user != nil {
		userID = user.ID
	}
	h.hub.Serve(NewClient(userID, conn))
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	rg.POST("/plans/:id/share", authMiddleware.RequireUser(), h.PostShare)

	community := rg.Group("/community")
	{
		community.GET("/plans", h.ListShared)
		community.GET("/plans/:id", h.GetShared)
		community.GET("/ws", authMiddleware.OptionalUser(), h.Feed)

		write := community.Group("")
		write.Use(authMiddleware.RequireUser())
		{
			write.DELETE("/plans/:id", h.DeleteShared)
			write.POST("/plans/:id/comments", h.PostComment)
			write.PUT("/plans/:id/rating", h.PutRating)
		}
	}
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

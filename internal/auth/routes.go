package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all auth-related routes
func RegisterRoutes(
	router *gin.RouterGroup,
	handler *Handler,
	adminHandler *AdminHandler,
	middleware *Middleware,
) {
	auth := router.Group("/auth")
	{
		// Public OAuth routes
		auth.GET("/login/:provider", handler.Login)
		auth.GET("/callback/:provider", handler.Callback)
		auth.POST("/logout", handler.Logout)

		// Profile is reachable with a token as well as a session
		user := auth.Group("")
		user.Use(middleware.RequireUser())
		{
			user.GET("/me", handler.Me)
			user.PATCH("/me", handler.UpdateMe)
		}

		// Tokens can only be managed from a browser session
		sessionProtected := auth.Group("")
		sessionProtected.Use(middleware.RequireSession())
		{
			sessionProtected.GET("/tokens", handler.ListTokens)
			sessionProtected.POST("/tokens", handler.CreateToken)
			sessionProtected.DELETE("/tokens/:id", handler.RevokeToken)
		}
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.RequireSession())
	admin.Use(middleware.RequireRole(RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.GET("/users/:id/tokens", adminHandler.ListUserTokens)

		admin.DELETE("/tokens/:id", adminHandler.RevokeToken)
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

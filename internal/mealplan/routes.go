package mealplan

import (
	"DietAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	plans := rg.Group("/plans")
	plans.Use(authMiddleware.RequireUser())
	{
		plans.POST("", h.PostPlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
		plans.PATCH("/:id", h.PatchPlan)

		plans.GET("/:id/compliance", h.GetCompliance)
		plans.GET("/:id/shopping-list", h.GetShoppingList)

		plans.GET("/:id/weeks/:week/days/:day", h.GetDay)
		plans.GET("/:id/weeks/:week/days/:day/nutrition", h.GetNutrition)
		plans.POST("/:id/weeks/:week/days/:day/:slot", h.PostMeal)
		plans.DELETE("/:id/weeks/:week/days/:day/:slot/:itemId", h.DeleteMeal)
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

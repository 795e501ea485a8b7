package mealplan

import (
	"fmt"
	"net/http"
	"strconv"

	"DietAPI/internal/auth"
	"DietAPI/internal/common"
	"DietAPI/internal/diet"

	"github.com/gin-gonic/gin"
)

// Handler serves the meal plan endpoints of the signed in user
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// versionQuery reads the optional ?version= used by requests without a body.
func versionQuery(c *gin.Context) (*int64, error) {
	raw := c.Query("version")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q", raw)
	}
	return &v, nil
}

func (h *Handler) PostPlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	user := auth.GetUserFromContext(c)
	plan, err := h.svc.Create(c.Request.Context(), user.ID, req.Title)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusCreated, plan)
}

func (h *Handler) ListPlans(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	plans, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) GetPlan(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	plan, err := h.svc.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, plan)
}

func (h *Handler) PatchPlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	user := auth.GetUserFromContext(c)
	plan, err := h.svc.Update(c.Request.Context(), user.ID, c.Param("id"), req.Title, req.IsPublic, req.Version)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, plan)
}

func (h *Handler) GetDay(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	day, err := h.svc.Day(c.Request.Context(), user.ID, c.Param("id"), c.Param("week"), c.Param("day"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, day)
}

// PostMeal adds an item to /weeks/:week/days/:day/:slot
func (h *Handler) PostMeal(c *gin.Context) {
	slot, err := diet.ParseSlot(c.Param("slot"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	var req AddMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.GetUserFromContext(c)
	plan, item, err := h.svc.AddMeal(c.Request.Context(), user.ID, c.Param("id"),
		c.Param("week"), c.Param("day"), slot, req.item(), req.Version)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusCreated, AddMealResponse{Item: item, Plan: plan})
}

func (h *Handler) DeleteMeal(c *gin.Context) {
	slot, err := diet.ParseSlot(c.Param("slot"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	expected, err := versionQuery(c)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.GetUserFromContext(c)
	plan, err := h.svc.RemoveMeal(c.Request.Context(), user.ID, c.Param("id"),
		c.Param("week"), c.Param("day"), slot, c.Param("itemId"), expected)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, plan)
}

// GetCompliance scores the plan for ?bloodType=, falling back to the
// caller's profile blood type.
func (h *Handler) GetCompliance(c *gin.Context) {
	user := auth.GetUserFromContext(c)

	bt := user.BloodType
	if raw := c.Query("bloodType"); raw != "" {
		parsed, err := diet.ParseBloodType(raw)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		bt = parsed
	}
	if bt == "" {
		common.Fail(c, http.StatusBadRequest, "no blood type given and none set on the profile")
		return
	}

	planID := c.Param("id")
	score, err := h.svc.Compliance(c.Request.Context(), user.ID, planID, bt)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, ComplianceResponse{PlanID: planID, BloodType: bt, Compliance: score})
}

func (h *Handler) GetShoppingList(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	ctx := c.Request.Context()

	if c.Query("grouped") == "true" {
		sections, err := h.svc.GroupedShoppingList(ctx, user.ID, c.Param("id"))
		if err != nil {
			common.RespondError(c, err)
			return
		}
		common.OK(c, http.StatusOK, gin.H{"sections": sections})
		return
	}

	list, err := h.svc.ShoppingList(ctx, user.ID, c.Param("id"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"items": list})
}

func (h *Handler) GetNutrition(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	week, day := c.Param("week"), c.Param("day")
	total, skipped, err := h.svc.Nutrition(c.Request.Context(), user.ID, c.Param("id"), week, day)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, NutritionResponse{WeekID: week, DayID: day, Total: total, Skipped: skipped})
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

package tracking

import (
	"net/http"
	"time"

	"DietAPI/internal/auth"
	"DietAPI/internal/common"
	"DietAPI/internal/diet"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type AddWeightRequest struct {
	Weight float64 `json:"weight" binding:"required"`
	// Date is YYYY-MM-DD; empty means today.
	Date string `json:"date"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func (h *Handler) PostWeight(c *gin.Context) {
	var req AddWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	user := auth.GetUserFromContext(c)
	entry, err := h.svc.AddWeight(c.Request.Context(), user.ID, req.Weight, date)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusCreated, entry)
}

func (h *Handler) GetWeights(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}

	user := auth.GetUserFromContext(c)
	entries, err := h.svc.History(c.Request.Context(), user.ID, from, to)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"entries": entries})
}

// GetSummary uses ?bloodType= or else the caller's profile blood type for
// the compliance figure.
func (h *Handler) GetSummary(c *gin.Context) {
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

	sum, err := h.svc.Summary(c.Request.Context(), user.ID, c.Query("planId"), bt)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, sum)
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	rg.POST("/weights", authMiddleware.RequireUser(), h.PostWeight)
	rg.GET("/weights", authMiddleware.RequireUser(), h.GetWeights)
	rg.GET("/tracking/summary", authMiddleware.RequireUser(), h.GetSummary)
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

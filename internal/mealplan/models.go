package mealplan

import "DietAPI/internal/diet"

type CreatePlanRequest struct {
	Title string `json:"title" binding:"required"`
}

// UpdatePlanRequest carries the fields of a PATCH. Version is the plan
// version the client last saw; when present a newer stored plan is a conflict.
type UpdatePlanRequest struct {
	Title    *string `json:"title"`
	IsPublic *bool   `json:"isPublic"`
	Version  *int64  `json:"version"`
}

type AddMealRequest struct {
	ID          string  `json:"id"`
	FoodID      string  `json:"foodId" binding:"required"`
	PortionSize float64 `json:"portionSize"`
	PortionUnit string  `json:"portionUnit"`
	TimeToEat   string  `json:"timeToEat"`
	Version     *int64  `json:"version"`
}

func (r AddMealRequest) item() diet.MealItem {
	return diet.MealItem{
		ID:          r.ID,
		FoodID:      r.FoodID,
		PortionSize: r.PortionSize,
		PortionUnit: r.PortionUnit,
		TimeToEat:   r.TimeToEat,
	}
}

type AddMealResponse struct {
	Item diet.MealItem `json:"item"`
	Plan diet.MealPlan `json:"plan"`
}

type ComplianceResponse struct {
	PlanID     string         `json:"planId"`
	BloodType  diet.BloodType `json:"bloodType"`
	Compliance float64        `json:"compliance"`
}

type NutritionResponse struct {
	WeekID  string               `json:"weekId"`
	DayID   string               `json:"dayId"`
	Total   diet.NutritionalInfo `json:"total"`
	Skipped int                  `json:"skipped"`
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

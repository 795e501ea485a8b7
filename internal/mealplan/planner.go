package mealplan

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"time"

	"DietAPI/internal/diet"

	"github.com/google/uuid"
)

// The functions in this file are value operations: they take a plan and return
// a new one, leaving the argument untouched. Persistence and locking live in
// Service.

// CreatePlan starts an empty private plan for userID.
func CreatePlan(userID int64, title string) (diet.MealPlan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return diet.MealPlan{}, diet.ErrInvalidTitle
	}
	now := time.Now().UTC()
	return diet.MealPlan{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		WeeklyPlans: diet.WeeklyPlans{},
		Ratings:     []diet.Rating{},
		Comments:    []diet.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddMeal appends item to the addressed slot, creating the week and the day on
// first use. An item without id gets a fresh one; the stored item is returned
// alongside the plan so callers learn that id.
func AddMeal(plan diet.MealPlan, weekID, dayID string, slot diet.Slot, item diet.MealItem) (diet.MealPlan, diet.MealItem, error) {
	if !slices.Contains(diet.Slots, slot) {
		return plan, diet.MealItem{}, fmt.Errorf("%w: %q", diet.ErrInvalidSlot, slot)
	}
	if item.PortionSize <= 0 {
		return plan, diet.MealItem{}, fmt.Errorf("%w: got %v", diet.ErrInvalidPortion, item.PortionSize)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	out := plan.Clone()
	if out.WeeklyPlans == nil {
		out.WeeklyPlans = diet.WeeklyPlans{}
	}
	days, ok := out.WeeklyPlans[weekID]
	if !ok {
		days = map[string]diet.DailyMeals{}
		out.WeeklyPlans[weekID] = days
	}
	day, ok := days[dayID]
	if !ok {
		day = diet.NewDailyMeals()
	}
	day.SetSlot(slot, append(day.Slot(slot), item))
	days[dayID] = day

	return out, item, nil
}

// RemoveMeal drops the first item with itemID from the slot. When nothing
// matches the plan is returned as is.
func RemoveMeal(plan diet.MealPlan, weekID, dayID string, slot diet.Slot, itemID string) diet.MealPlan {
	i := mealIndex(plan, weekID, dayID, slot, itemID)
	if i < 0 {
		return plan
	}

	out := plan.Clone()
	day := out.WeeklyPlans[weekID][dayID]
	day.SetSlot(slot, slices.Delete(day.Slot(slot), i, i+1))
	out.WeeklyPlans[weekID][dayID] = day
	return out
}

// HasMeal reports whether the slot holds an item with itemID.
func HasMeal(plan diet.MealPlan, weekID, dayID string, slot diet.Slot, itemID string) bool {
	return mealIndex(plan, weekID, dayID, slot, itemID) >= 0
}

func mealIndex(plan diet.MealPlan, weekID, dayID string, slot diet.Slot, itemID string) int {
	day, ok := plan.WeeklyPlans[weekID][dayID]
	if !ok {
		return -1
	}
	return slices.IndexFunc(day.Slot(slot), func(m diet.MealItem) bool { return m.ID == itemID })
}

// MealsForDay returns the day's slots, or four empty ones for a day that was
// never planned.
func MealsForDay(plan diet.MealPlan, weekID, dayID string) diet.DailyMeals {
	day, ok := plan.WeeklyPlans[weekID][dayID]
	if !ok {
		return diet.NewDailyMeals()
	}
	out := day.Clone()
	for _, s := range diet.Slots {
		if out.Slot(s) == nil {
			out.SetSlot(s, []diet.MealItem{})
		}
	}
	return out
}

func Rename(plan diet.MealPlan, title string) (diet.MealPlan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return plan, diet.ErrInvalidTitle
	}
	out := plan.Clone()
	out.Title = title
	return out, nil
}

func SetVisibility(plan diet.MealPlan, public bool) diet.MealPlan {
	out := plan.Clone()
	out.IsPublic = public
	return out
}

// AddComment appends a trimmed, non-empty comment.
func AddComment(plan diet.MealPlan, userID int64, userName, content string, at time.Time) (diet.MealPlan, diet.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return plan, diet.Comment{}, diet.ErrInvalidComment
	}
	c := diet.Comment{
		ID:       uuid.New().String(),
		UserID:   userID,
		UserName: userName,
		Content:  content,
		Date:     at.UTC(),
	}
	out := plan.Clone()
	out.Comments = append(out.Comments, c)
	return out, c, nil
}

// RatePlan records userID's score. A user has at most one rating per plan; a
// second call replaces the first.
func RatePlan(plan diet.MealPlan, userID int64, score int, at time.Time) (diet.MealPlan, error) {
	r := diet.Rating{UserID: userID, Score: score, Date: at.UTC()}
	if err := r.Validate(); err != nil {
		return plan, err
	}
	out := plan.Clone()
	if i := slices.IndexFunc(out.Ratings, func(x diet.Rating) bool { return x.UserID == userID }); i >= 0 {
		out.Ratings[i] = r
	} else {
		out.Ratings = append(out.Ratings, r)
	}
	return out, nil
}

// PlacedItem is a meal item together with its address in the plan.
type PlacedItem struct {
	WeekID string
	DayID  string
	Slot   diet.Slot
	Item   diet.MealItem
}

// Items walks every meal item of the weekly plans. Weeks and days are visited
// in key order, slots in display order.
func Items(weeks diet.WeeklyPlans) iter.Seq[PlacedItem] {
	return func(yield func(PlacedItem) bool) {
		for _, weekID := range slices.Sorted(maps.Keys(weeks)) {
			days := weeks[weekID]
			for _, dayID := range slices.Sorted(maps.Keys(days)) {
				day := days[dayID]
				for _, s := range diet.Slots {
					for _, item := range day.Slot(s) {
						if !yield(PlacedItem{WeekID: weekID, DayID: dayID, Slot: s, Item: item}) {
							return
						}
					}
				}
			}
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

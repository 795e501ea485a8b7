package mealplan

import (
	"maps"
	"slices"

	"DietAPI/internal/diet"
)

// FoodLookup resolves catalog foods by id. *catalog.Catalog satisfies it.
type FoodLookup interface {
	FoodByID(id string) (diet.Food, bool)
}

// Compliance is the share (0-100) of resolvable meal items whose food is
// beneficial for bt. Items referring to unknown foods are skipped; a plan with
// nothing resolvable scores 0.
func Compliance(plan diet.MealPlan, foods FoodLookup, bt diet.BloodType) (float64, error) {
	var total, compliant int
	for p := range Items(plan.WeeklyPlans) {
		food, ok := foods.FoodByID(p.Item.FoodID)
		if !ok {
			continue
		}
		compat, err := food.BloodTypeCompatibility.Lookup(bt)
		if err != nil {
			return 0, err
		}
		total++
		if compat == diet.Beneficial {
			compliant++
		}
	}
	if total == 0 {
		return 0, nil
	}
	return 100 * float64(compliant) / float64(total), nil
}

// ShoppingList sums the portion sizes per food id across the whole plan.
// Units are taken as they are; mixing grams and cups for one food adds the raw
// numbers.
func ShoppingList(plan diet.MealPlan) map[string]float64 {
	list := make(map[string]float64)
	for p := range Items(plan.WeeklyPlans) {
		list[p.Item.FoodID] += p.Item.PortionSize
	}
	return list
}

func AverageRating(ratings []diet.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings))
}

type ShoppingEntry struct {
	FoodID   string  `json:"foodId"`
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// GroupShoppingList arranges a shopping list by store section. Foods missing
// from the catalog, or without a section, are filed under "other".
func GroupShoppingList(list map[string]float64, foods FoodLookup) map[diet.StoreSection][]ShoppingEntry {
	grouped := make(map[diet.StoreSection][]ShoppingEntry)
	for _, foodID := range slices.Sorted(maps.Keys(list)) {
		entry := ShoppingEntry{FoodID: foodID, Quantity: list[foodID]}
		section := diet.SectionOther
		if food, ok := foods.FoodByID(foodID); ok {
			entry.Name = food.Name
			entry.Unit = food.PortionInfo.Unit
			if food.StoreSection != "" {
				section = food.StoreSection
			}
		}
		grouped[section] = append(grouped[section], entry)
	}
	return grouped
}

// DayNutrition totals the nutrition of one day. An item contributes its
// food's values scaled by portionSize/defaultSize; items in a unit other than
// the food's default unit, or with unknown foods, are left out and counted in
// skipped.
func DayNutrition(day diet.DailyMeals, foods FoodLookup) (total diet.NutritionalInfo, skipped int) {
	for _, s := range diet.Slots {
		for _, item := range day.Slot(s) {
			food, ok := foods.FoodByID(item.FoodID)
			if !ok {
				skipped++
				continue
			}
			if item.PortionUnit != "" && item.PortionUnit != food.PortionInfo.Unit {
				skipped++
				continue
			}
			total = total.Add(food.NutritionalInfo.Scale(item.PortionSize / food.PortionInfo.DefaultSize))
		}
	}
	return total, skipped
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

package mealplan

import (
	"math"
	"testing"

	"DietAPI/internal/diet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foodMap map[string]diet.Food

func (m foodMap) FoodByID(id string) (diet.Food, bool) {
	f, ok := m[id]
	return f, ok
}

func compat(c diet.Compatibility) diet.CompatibilityMap {
	m := diet.CompatibilityMap{}
	for _, bt := range diet.BloodTypes {
		m[bt] = c
	}
	return m
}

func testFoods() foodMap {
	beef := compat(diet.Neutral)
	beef[diet.OPositive] = diet.Beneficial
	beef[diet.APositive] = diet.Avoid

	return foodMap{
		"f1": {
			ID: "f1", Name: "Spinach", Category: diet.CategoryVegetables,
			NutritionalInfo:        diet.NutritionalInfo{Calories: 23, Protein: 3, Carbs: 4, Fats: 0.4},
			PortionInfo:            diet.PortionInfo{DefaultSize: 100, Unit: "g"},
			StoreSection:           diet.SectionProduce,
			BloodTypeCompatibility: compat(diet.Beneficial),
		},
		"f2": {
			ID: "f2", Name: "Beef", Category: diet.CategoryMeat,
			NutritionalInfo:        diet.NutritionalInfo{Calories: 250, Protein: 26, Fats: 15},
			PortionInfo:            diet.PortionInfo{DefaultSize: 100, Unit: "g"},
			StoreSection:           diet.SectionMeat,
			BloodTypeCompatibility: beef,
		},
		"f3": {
			ID: "f3", Name: "Rice", Category: diet.CategoryGrains,
			NutritionalInfo:        diet.NutritionalInfo{Calories: 130, Carbs: 28},
			PortionInfo:            diet.PortionInfo{DefaultSize: 1, Unit: "cup"},
			BloodTypeCompatibility: compat(diet.Neutral),
		},
	}
}

func planWith(t *testing.T, items ...diet.MealItem) diet.MealPlan {
	t.Helper()
	p := newPlan(t)
	for i, item := range items {
		slot := diet.Slots[i%len(diet.Slots)]
		var err error
		p, _, err = AddMeal(p, "w1", "d1", slot, item)
		require.NoError(t, err)
	}
	return p
}

func TestCompliance(t *testing.T) {
	foods := testFoods()

	t.Run("all beneficial", func(t *testing.T) {
		p := planWith(t, diet.MealItem{FoodID: "f1", PortionSize: 100, PortionUnit: "g"})
		score, err := Compliance(p, foods, diet.APositive)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)
	})

	t.Run("mixed", func(t *testing.T) {
		p := planWith(t,
			diet.MealItem{FoodID: "f1", PortionSize: 100},
			diet.MealItem{FoodID: "f2", PortionSize: 100},
		)
		score, err := Compliance(p, foods, diet.APositive)
		require.NoError(t, err)
		assert.Equal(t, 50.0, score)

		score, err = Compliance(p, foods, diet.OPositive)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)
	})

	t.Run("unknown foods are skipped", func(t *testing.T) {
		p := planWith(t,
			diet.MealItem{FoodID: "f1", PortionSize: 100},
			diet.MealItem{FoodID: "ghost", PortionSize: 100},
		)
		score, err := Compliance(p, foods, diet.BNegative)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)
	})

	t.Run("nothing resolvable scores zero", func(t *testing.T) {
		for _, p := range []diet.MealPlan{newPlan(t), planWith(t, diet.MealItem{FoodID: "ghost", PortionSize: 1})} {
			score, err := Compliance(p, foods, diet.APositive)
			require.NoError(t, err)
			assert.Zero(t, score)
			assert.False(t, math.IsNaN(score))
		}
	})

	t.Run("missing compatibility data", func(t *testing.T) {
		broken := testFoods()
		f := broken["f1"]
		f.BloodTypeCompatibility = diet.CompatibilityMap{diet.APositive: diet.Beneficial}
		broken["f1"] = f

		p := planWith(t, diet.MealItem{FoodID: "f1", PortionSize: 1})
		_, err := Compliance(p, broken, diet.ONegative)
		assert.ErrorIs(t, err, diet.ErrMissingCompatibilityData)
	})
}

func TestShoppingList(t *testing.T) {
	a := diet.MealItem{FoodID: "f1", PortionSize: 100, PortionUnit: "g"}
	b := diet.MealItem{FoodID: "f1", PortionSize: 50, PortionUnit: "g"}
	c := diet.MealItem{FoodID: "f3", PortionSize: 2, PortionUnit: "cup"}

	list := ShoppingList(planWith(t, a, b, c))
	assert.Equal(t, map[string]float64{"f1": 150, "f3": 2}, list)

	reordered := ShoppingList(planWith(t, c, b, a))
	assert.Equal(t, list, reordered)

	assert.Empty(t, ShoppingList(newPlan(t)))
}

func TestAverageRating(t *testing.T) {
	assert.Zero(t, AverageRating(nil))
	assert.Equal(t, 4.0, AverageRating([]diet.Rating{{Score: 5}, {Score: 3}}))
	assert.Equal(t, 1.0, AverageRating([]diet.Rating{{Score: 1}}))
}

func TestGroupShoppingList(t *testing.T) {
	grouped := GroupShoppingList(map[string]float64{"f1": 150, "f2": 200, "f3": 2, "ghost": 1}, testFoods())

	assert.Equal(t, []ShoppingEntry{{FoodID: "f1", Name: "Spinach", Quantity: 150, Unit: "g"}}, grouped[diet.SectionProduce])
	assert.Equal(t, []ShoppingEntry{{FoodID: "f2", Name: "Beef", Quantity: 200, Unit: "g"}}, grouped[diet.SectionMeat])
	assert.Equal(t, []ShoppingEntry{
		{FoodID: "f3", Name: "Rice", Quantity: 2, Unit: "cup"},
		{FoodID: "ghost", Quantity: 1},
	}, grouped[diet.SectionOther])
}

func TestDayNutrition(t *testing.T) {
	day := diet.NewDailyMeals()
	day.Breakfast = []diet.MealItem{{FoodID: "f1", PortionSize: 200, PortionUnit: "g"}}
	day.Lunch = []diet.MealItem{{FoodID: "f3", PortionSize: 2}}
	day.Dinner = []diet.MealItem{
		{FoodID: "f2", PortionSize: 1, PortionUnit: "lb"},
		{FoodID: "ghost", PortionSize: 1},
	}

	total, skipped := DayNutrition(day, testFoods())
	assert.Equal(t, 2, skipped)
	assert.InDelta(t, 46+260, total.Calories, 1e-9)
	assert.InDelta(t, 6, total.Protein, 1e-9)
	assert.InDelta(t, 8+56, total.Carbs, 1e-9)
	assert.Nil(t, total.Fiber)
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

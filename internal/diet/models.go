package diet

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type FoodCategory string

const (
	CategoryMeat       FoodCategory = "meat"
	CategoryFish       FoodCategory = "fish"
	CategoryDairy      FoodCategory = "dairy"
	CategoryVegetables FoodCategory = "vegetables"
	CategoryFruits     FoodCategory = "fruits"
	CategoryGrains     FoodCategory = "grains"
	CategoryLegumes    FoodCategory = "legumes"
	CategoryNuts       FoodCategory = "nuts"
	CategoryHerbs      FoodCategory = "herbs"
	CategorySpices     FoodCategory = "spices"
)

var FoodCategories = []FoodCategory{
	CategoryMeat, CategoryFish, CategoryDairy, CategoryVegetables, CategoryFruits,
	CategoryGrains, CategoryLegumes, CategoryNuts, CategoryHerbs, CategorySpices,
}

func (c FoodCategory) Valid() bool {
	for _, fc := range FoodCategories {
		if c == fc {
			return true
		}
	}
	return false
}

type StoreSection string

const (
	SectionProduce StoreSection = "produce"
	SectionMeat    StoreSection = "meat"
	SectionDairy   StoreSection = "dairy"
	SectionPantry  StoreSection = "pantry"
	SectionFrozen  StoreSection = "frozen"
	SectionOther   StoreSection = "other"
)

func (s StoreSection) Valid() bool {
	switch s {
	case SectionProduce, SectionMeat, SectionDairy, SectionPantry, SectionFrozen, SectionOther:
		return true
	}
	return false
}

type NutritionalInfo struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fats     float64  `json:"fats"`
	Fiber    *float64 `json:"fiber,omitempty"`
}

func (n NutritionalInfo) Scale(factor float64) NutritionalInfo {
	out := NutritionalInfo{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Carbs:    n.Carbs * factor,
		Fats:     n.Fats * factor,
	}
	if n.Fiber != nil {
		f := *n.Fiber * factor
		out.Fiber = &f
	}
	return out
}

func (n NutritionalInfo) Add(o NutritionalInfo) NutritionalInfo {
	out := NutritionalInfo{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fats:     n.Fats + o.Fats,
	}
	if n.Fiber != nil || o.Fiber != nil {
		var f float64
		if n.Fiber != nil {
			f += *n.Fiber
		}
		if o.Fiber != nil {
			f += *o.Fiber
		}
		out.Fiber = &f
	}
	return out
}

type PortionInfo struct {
	DefaultSize      float64  `json:"defaultSize"`
	Unit             string   `json:"unit"`
	AlternativeUnits []string `json:"alternativeUnits,omitempty"`
}

type Food struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Category               FoodCategory     `json:"category"`
	Description            string           `json:"description,omitempty"`
	NutritionalInfo        NutritionalInfo  `json:"nutritionalInfo"`
	PortionInfo            PortionInfo      `json:"portionInfo"`
	StoreSection           StoreSection     `json:"storeSection,omitempty"`
	BloodTypeCompatibility CompatibilityMap `json:"bloodTypeCompatibility"`
}

// Validate checks the load-time invariants of a catalog food.
func (f Food) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: food without id", ErrInvalidCatalogItem)
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: food %s has no name", ErrInvalidCatalogItem, f.ID)
	}
	if !f.Category.Valid() {
		return fmt.Errorf("%w: food %s has unknown category %q", ErrInvalidCatalogItem, f.ID, f.Category)
	}
	n := f.NutritionalInfo
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fats < 0 || (n.Fiber != nil && *n.Fiber < 0) {
		return fmt.Errorf("%w: food %s has negative nutrition values", ErrInvalidCatalogItem, f.ID)
	}
	if f.PortionInfo.DefaultSize <= 0 || f.PortionInfo.Unit == "" {
		return fmt.Errorf("%w: food %s needs a positive default portion with a unit", ErrInvalidCatalogItem, f.ID)
	}
	if f.StoreSection != "" && !f.StoreSection.Valid() {
		return fmt.Errorf("%w: food %s has unknown store section %q", ErrInvalidCatalogItem, f.ID, f.StoreSection)
	}
	if err := f.BloodTypeCompatibility.Validate(); err != nil {
		return fmt.Errorf("food %s: %w", f.ID, err)
	}
	return nil
}

type Herb struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	ScientificName         string           `json:"scientificName,omitempty"`
	HealingProperties      []string         `json:"healingProperties"`
	BloodTypeCompatibility CompatibilityMap `json:"bloodTypeCompatibility"`
	DosageInfo             string           `json:"dosageInfo,omitempty"`
	Precautions            []string         `json:"precautions,omitempty"`
	ShortDescription       string           `json:"shortDescription,omitempty"`
	DetailedDescription    string           `json:"detailedDescription,omitempty"`
}

func (h Herb) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("%w: herb without id", ErrInvalidCatalogItem)
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: herb %s has no name", ErrInvalidCatalogItem, h.ID)
	}
	if err := h.BloodTypeCompatibility.Validate(); err != nil {
		return fmt.Errorf("herb %s: %w", h.ID, err)
	}
	return nil
}

type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnacks    Slot = "snacks"
)

// Slots is the fixed display order of a day.
var Slots = []Slot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks}

func ParseSlot(s string) (Slot, error) {
	v := Slot(strings.ToLower(strings.TrimSpace(s)))
	if v == "snack" {
		v = SlotSnacks
	}
	for _, slot := range Slots {
		if v == slot {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

type MealItem struct {
	ID          string  `json:"id"`
	FoodID      string  `json:"foodId"`
	PortionSize float64 `json:"portionSize"`
	PortionUnit string  `json:"portionUnit"`
	TimeToEat   string  `json:"timeToEat,omitempty"`
}

type DailyMeals struct {
	Breakfast []MealItem `json:"breakfast"`
	Lunch     []MealItem `json:"lunch"`
	Dinner    []MealItem `json:"dinner"`
	Snacks    []MealItem `json:"snacks"`
}

// NewDailyMeals returns a day with all four slots present and empty.
func NewDailyMeals() DailyMeals {
	return DailyMeals{
		Breakfast: []MealItem{},
		Lunch:     []MealItem{},
		Dinner:    []MealItem{},
		Snacks:    []MealItem{},
	}
}

func (d DailyMeals) Slot(s Slot) []MealItem {
	switch s {
	case SlotBreakfast:
		return d.Breakfast
	case SlotLunch:
		return d.Lunch
	case SlotDinner:
		return d.Dinner
	case SlotSnacks:
		return d.Snacks
	}
	return nil
}

func (d *DailyMeals) SetSlot(s Slot, items []MealItem) {
	switch s {
	case SlotBreakfast:
		d.Breakfast = items
	case SlotLunch:
		d.Lunch = items
	case SlotDinner:
		d.Dinner = items
	case SlotSnacks:
		d.Snacks = items
	}
}

func (d DailyMeals) Clone() DailyMeals {
	return DailyMeals{
		Breakfast: slices.Clone(d.Breakfast),
		Lunch:     slices.Clone(d.Lunch),
		Dinner:    slices.Clone(d.Dinner),
		Snacks:    slices.Clone(d.Snacks),
	}
}

func (d DailyMeals) Len() int {
	return len(d.Breakfast) + len(d.Lunch) + len(d.Dinner) + len(d.Snacks)
}

// WeeklyPlans is keyed weekId → dayId. Entries only exist once a meal was added.
type WeeklyPlans map[string]map[string]DailyMeals

func (w WeeklyPlans) Clone() WeeklyPlans {
	if w == nil {
		return nil
	}
	out := make(WeeklyPlans, len(w))
	for weekID, days := range w {
		cp := make(map[string]DailyMeals, len(days))
		for dayID, meals := range days {
			cp[dayID] = meals.Clone()
		}
		out[weekID] = cp
	}
	return out
}

type Rating struct {
	UserID int64     `json:"userId"`
	Score  int       `json:"score"`
	Date   time.Time `json:"date"`
}

func (r Rating) Validate() error {
	if r.Score < 1 || r.Score > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, r.Score)
	}
	return nil
}

type Comment struct {
	ID       string    `json:"id"`
	UserID   int64     `json:"userId"`
	UserName string    `json:"userName,omitempty"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
}

type MealPlan struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"userId"`
	Title       string      `json:"title"`
	IsPublic    bool        `json:"isPublic"`
	WeeklyPlans WeeklyPlans `json:"weeklyPlans"`
	Ratings     []Rating    `json:"ratings"`
	Comments    []Comment   `json:"comments"`
	Version     int64       `json:"version"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy so that value operations never alias their input.
func (p MealPlan) Clone() MealPlan {
	out := p
	out.WeeklyPlans = p.WeeklyPlans.Clone()
	out.Ratings = slices.Clone(p.Ratings)
	out.Comments = slices.Clone(p.Comments)
	return out
}

type WeightEntry struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"userId"`
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

type SharedMealPlan struct {
	ID            string      `json:"id"`
	MealPlanID    string      `json:"mealPlanId"`
	UserID        int64       `json:"userId"`
	UserName      string      `json:"userName"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	DateShared    time.Time   `json:"dateShared"`
	Snapshot      WeeklyPlans `json:"snapshot"`
	Comments      []Comment   `json:"comments"`
	Ratings       []Rating    `json:"ratings"`
	AverageRating float64     `json:"averageRating"`
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

package mealplan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"DietAPI/internal/diet"
	"DietAPI/internal/metrics"
)

// Service runs the value operations of this package against stored plans.
// Writes to one plan are serialized by a per-plan mutex, and the version
// column catches writers that loaded the plan before someone else saved it.
type Service struct {
	repo    *Repository
	foods   FoodLookup
	metrics *metrics.Metrics

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(repo *Repository, foods FoodLookup, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		foods:   foods,
		metrics: m,
		locks:   make(map[string]*sync.Mutex),
	}
}

// planLock returns the mutex for the given plan id.
func (s *Service) planLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if s.locks[id] == nil {
		s.locks[id] = &sync.Mutex{}
	}
	return s.locks[id]
}

func (s *Service) Create(ctx context.Context, userID int64, title string) (diet.MealPlan, error) {
	plan, err := CreatePlan(userID, title)
	if err != nil {
		return diet.MealPlan{}, err
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return diet.MealPlan{}, err
	}
	s.metrics.Record(metrics.EventPlanCreated)
	return plan, nil
}

// Get returns a plan the user may read: their own, or any public one. Other
// plans look like they do not exist.
func (s *Service) Get(ctx context.Context, userID int64, planID string) (diet.MealPlan, error) {
	plan, err := s.repo.Get(ctx, planID)
	if err != nil {
		return diet.MealPlan{}, err
	}
	if plan.UserID != userID && !plan.IsPublic {
		return diet.MealPlan{}, fmt.Errorf("meal plan %s: %w", planID, diet.ErrNotFound)
	}
	return plan, nil
}

// Load returns a plan without any access check.
func (s *Service) Load(ctx context.Context, planID string) (diet.MealPlan, error) {
	return s.repo.Get(ctx, planID)
}

func (s *Service) List(ctx context.Context, userID int64) ([]diet.MealPlan, error) {
	return s.repo.ListByUser(ctx, userID)
}

// errUnchanged is returned by an apply func that left the plan as it was.
var errUnchanged = errors.New("plan unchanged")

// mutation describes one locked read-modify-write of a plan.
type mutation struct {
	planID string
	userID int64
	// ownerOnly rejects users other than the plan owner with ErrForbidden.
	ownerOnly bool
	// expected, when set, is the version the caller last saw.
	expected *int64
	// social writes only ratings and comments, which do not move the version.
	social bool
	apply  func(diet.MealPlan) (diet.MealPlan, error)
}

// mutate reports whether anything was written. An apply func returning
// errUnchanged leaves the stored plan and its version alone.
func (s *Service) mutate(ctx context.Context, m mutation) (diet.MealPlan, bool, error) {
	lock := s.planLock(m.planID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.repo.Get(ctx, m.planID)
	if err != nil {
		return diet.MealPlan{}, false, err
	}
	if m.ownerOnly && plan.UserID != m.userID {
		return diet.MealPlan{}, false, fmt.Errorf("meal plan %s: %w", m.planID, diet.ErrForbidden)
	}
	if m.expected != nil && *m.expected != plan.Version {
		s.metrics.Record(metrics.EventVersionConflict)
		return diet.MealPlan{}, false, fmt.Errorf("meal plan %s is at version %d, not %d: %w",
			m.planID, plan.Version, *m.expected, diet.ErrVersionConflict)
	}

	next, err := m.apply(plan)
	if errors.Is(err, errUnchanged) {
		return plan, false, nil
	}
	if err != nil {
		return diet.MealPlan{}, false, err
	}

	if m.social {
		if err := s.repo.SaveSocial(ctx, next); err != nil {
			return diet.MealPlan{}, false, err
		}
		return next, true, nil
	}

	saved, err := s.repo.Save(ctx, next)
	if errors.Is(err, diet.ErrVersionConflict) {
		s.metrics.Record(metrics.EventVersionConflict)
	}
	if err != nil {
		return diet.MealPlan{}, false, err
	}
	return saved, true, nil
}

// Update renames the plan and/or flips its visibility.
func (s *Service) Update(ctx context.Context, userID int64, planID string, title *string, isPublic *bool, expected *int64) (diet.MealPlan, error) {
	plan, _, err := s.mutate(ctx, mutation{
		planID:    planID,
		userID:    userID,
		ownerOnly: true,
		expected:  expected,
		apply: func(p diet.MealPlan) (diet.MealPlan, error) {
			var err error
			if title != nil {
				if p, err = Rename(p, *title); err != nil {
					return p, err
				}
			}
			if isPublic != nil {
				p = SetVisibility(p, *isPublic)
			}
			return p, nil
		},
	})
	return plan, err
}

// AddMeal stores item in the addressed slot. A missing portion unit is taken
// from the catalog food; unknown foods are stored as given.
func (s *Service) AddMeal(ctx context.Context, userID int64, planID, weekID, dayID string, slot diet.Slot, item diet.MealItem, expected *int64) (diet.MealPlan, diet.MealItem, error) {
	if item.PortionUnit == "" {
		if food, ok := s.foods.FoodByID(item.FoodID); ok {
			item.PortionUnit = food.PortionInfo.Unit
		}
	}

	var added diet.MealItem
	plan, _, err := s.mutate(ctx, mutation{
		planID:    planID,
		userID:    userID,
		ownerOnly: true,
		expected:  expected,
		apply: func(p diet.MealPlan) (diet.MealPlan, error) {
			next, stored, err := AddMeal(p, weekID, dayID, slot, item)
			added = stored
			return next, err
		},
	})
	if err != nil {
		return diet.MealPlan{}, diet.MealItem{}, err
	}
	s.metrics.Record(metrics.EventMealAdded)
	return plan, added, nil
}

// RemoveMeal deletes the item. An unknown item id is not an error; the plan
// comes back as stored, without a new version.
func (s *Service) RemoveMeal(ctx context.Context, userID int64, planID, weekID, dayID string, slot diet.Slot, itemID string, expected *int64) (diet.MealPlan, error) {
	plan, removed, err := s.mutate(ctx, mutation{
		planID:    planID,
		userID:    userID,
		ownerOnly: true,
		expected:  expected,
		apply: func(p diet.MealPlan) (diet.MealPlan, error) {
			if !HasMeal(p, weekID, dayID, slot, itemID) {
				return p, errUnchanged
			}
			return RemoveMeal(p, weekID, dayID, slot, itemID), nil
		},
	})
	if err != nil {
		return diet.MealPlan{}, err
	}
	if removed {
		s.metrics.Record(metrics.EventMealRemoved)
	}
	return plan, nil
}

// SetVisibility is the owner-only switch used when a plan is shared or
// withdrawn from the community feed.
func (s *Service) SetVisibility(ctx context.Context, userID int64, planID string, public bool) (diet.MealPlan, error) {
	plan, _, err := s.mutate(ctx, mutation{
		planID:    planID,
		userID:    userID,
		ownerOnly: true,
		apply: func(p diet.MealPlan) (diet.MealPlan, error) {
			return SetVisibility(p, public), nil
		},
	})
	return plan, err
}

// Comment adds a comment by any user. Callers decide who may comment.
// Comments and ratings leave the plan version as it is, so they never make
// the owner's next edit conflict.
func (s *Service) Comment(ctx context.Context, planID string, userID int64, userName, content string) (diet.MealPlan, diet.Comment, error) {
	var added diet.Comment
	plan, _, err := s.mutate(ctx, mutation{
		planID: planID,
		userID: userID,
		social: true,
		apply: func(p diet.MealPlan) (diet.MealPlan, error) {
			next, c, err := AddComment(p, userID, userName, content, time.Now())
			added = c
			return next, err
		},
	})
	if err != nil {
		return diet.MealPlan{}, diet.Comment{}, err
	}
	s.metrics.Record(metrics.EventCommentPosted)
	return plan, added, nil
}

// Rate records or replaces userID's rating of the plan.
func (s *Service) Rate(ctx context.Context, planID string, userID int64, score int) (diet.MealPlan, error) {
	plan, _, err := s.mutate(ctx, mutation{
		planID: planID,
		userID: userID,
		social: true,
		apply: func(p diet.MealPlan) (diet.MealPlan, error) {
			return RatePlan(p, userID, score, time.Now())
		},
	})
	if err != nil {
		return diet.MealPlan{}, err
	}
	s.metrics.Record(metrics.EventRatingSubmitted)
	return plan, nil
}

func (s *Service) Day(ctx context.Context, userID int64, planID, weekID, dayID string) (diet.DailyMeals, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return diet.DailyMeals{}, err
	}
	return MealsForDay(plan, weekID, dayID), nil
}

func (s *Service) Compliance(ctx context.Context, userID int64, planID string, bt diet.BloodType) (float64, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return 0, err
	}
	return Compliance(plan, s.foods, bt)
}

func (s *Service) ShoppingList(ctx context.Context, userID int64, planID string) (map[string]float64, error) {
	plan, err := s.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return ShoppingList(plan), nil
}

func (s *Service) GroupedShoppingList(ctx context.Context, userID int64, planID string) (map[diet.StoreSection][]ShoppingEntry, error) {
	list, err := s.ShoppingList(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return GroupShoppingList(list, s.foods), nil
}

func (s *Service) Nutrition(ctx context.Context, userID int64, planID, weekID, dayID string) (diet.NutritionalInfo, int, error) {
	day, err := s.Day(ctx, userID, planID, weekID, dayID)
	if err != nil {
		return diet.NutritionalInfo{}, 0, err
	}
	total, skipped := DayNutrition(day, s.foods)
	return total, skipped, nil
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

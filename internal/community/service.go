package community

import (
	"context"
	"fmt"
	"strings"
	"time"

	"DietAPI/internal/diet"
	"DietAPI/internal/logger"
	"DietAPI/internal/mealplan"
	"DietAPI/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Author identifies who performs a community action.
type Author struct {
	UserID int64
	Name   string
}

// Service publishes meal plans to the community feed. Comments and ratings
// are stored on the underlying plan through the meal plan service; the hub
// announces every change to websocket subscribers.
type Service struct {
	repo    *Repository
	plans   *mealplan.Service
	hub     *Hub
	metrics *metrics.Metrics
}

func NewService(repo *Repository, plans *mealplan.Service, hub *Hub, m *metrics.Metrics) *Service {
	return &Service{repo: repo, plans: plans, hub: hub, metrics: m}
}

// Share publishes a snapshot of the author's plan and marks the plan public.
// An empty title falls back to the plan title. A failed publish puts a
// previously private plan back to private.
func (s *Service) Share(ctx context.Context, author Author, planID, title, description string) (diet.SharedMealPlan, error) {
	before, err := s.plans.Load(ctx, planID)
	if err != nil {
		return diet.SharedMealPlan{}, err
	}
	plan, err := s.plans.SetVisibility(ctx, author.UserID, planID, true)
	if err != nil {
		return diet.SharedMealPlan{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = plan.Title
	}
	shared := diet.SharedMealPlan{
		ID:          uuid.New().String(),
		MealPlanID:  plan.ID,
		UserID:      author.UserID,
		UserName:    author.Name,
		Title:       title,
		Description: strings.TrimSpace(description),
		DateShared:  time.Now().UTC(),
		Snapshot:    plan.WeeklyPlans.Clone(),
	}
	if shared.ID, err = s.repo.Upsert(ctx, shared); err != nil {
		if !before.IsPublic {
			if _, rerr := s.plans.SetVisibility(ctx, author.UserID, planID, false); rerr != nil {
				logger.Error("failed to restore plan visibility", zap.String("plan_id", planID), zap.Error(rerr))
			}
		}
		return diet.SharedMealPlan{}, err
	}
	withSocial(&shared, plan)

	s.metrics.Record(metrics.EventPlanShared)
	s.hub.Broadcast(Event{Type: EventPlanShared, SharedPlanID: shared.ID, Data: shared})
	return shared, nil
}

// Unshare withdraws a share. Only its author may do so.
func (s *Service) Unshare(ctx context.Context, author Author, sharedID string) error {
	shared, err := s.repo.Get(ctx, sharedID)
	if err != nil {
		return err
	}
	if shared.UserID != author.UserID {
		return fmt.Errorf("shared plan %s: %w", sharedID, diet.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, sharedID); err != nil {
		return err
	}
	if _, err := s.plans.SetVisibility(ctx, author.UserID, shared.MealPlanID, false); err != nil {
		return err
	}

	s.metrics.Record(metrics.EventPlanUnshared)
	s.hub.Broadcast(Event{Type: EventPlanUnshared, SharedPlanID: sharedID})
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]diet.SharedMealPlan, error) {
	feed, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range feed {
		if err := s.hydrate(ctx, &feed[i]); err != nil {
			return nil, err
		}
	}
	return feed, nil
}

func (s *Service) Get(ctx context.Context, sharedID string) (diet.SharedMealPlan, error) {
	shared, err := s.repo.Get(ctx, sharedID)
	if err != nil {
		return diet.SharedMealPlan{}, err
	}
	if err := s.hydrate(ctx, &shared); err != nil {
		return diet.SharedMealPlan{}, err
	}
	return shared, nil
}

// Comment adds a comment to a shared plan.
func (s *Service) Comment(ctx context.Context, author Author, sharedID, content string) (diet.Comment, error) {
	shared, err := s.repo.Get(ctx, sharedID)
	if err != nil {
		return diet.Comment{}, err
	}
	_, c, err := s.plans.Comment(ctx, shared.MealPlanID, author.UserID, author.Name, content)
	if err != nil {
		return diet.Comment{}, err
	}
	s.hub.Broadcast(Event{Type: EventCommentCreated, SharedPlanID: sharedID, Data: c})
	return c, nil
}

// Rate records the author's score and returns the shared plan with the new
// average.
func (s *Service) Rate(ctx context.Context, author Author, sharedID string, score int) (diet.SharedMealPlan, error) {
	shared, err := s.repo.Get(ctx, sharedID)
	if err != nil {
		return diet.SharedMealPlan{}, err
	}
	plan, err := s.plans.Rate(ctx, shared.MealPlanID, author.UserID, score)
	if err != nil {
		return diet.SharedMealPlan{}, err
	}
	withSocial(&shared, plan)

	s.hub.Broadcast(Event{
		Type:         EventRatingUpdated,
		SharedPlanID: sharedID,
		Data:         map[string]any{"averageRating": shared.AverageRating, "ratings": len(shared.Ratings)},
	})
	return shared, nil
}

func (s *Service) hydrate(ctx context.Context, shared *diet.SharedMealPlan) error {
	plan, err := s.plans.Load(ctx, shared.MealPlanID)
	if err != nil {
		return err
	}
	withSocial(shared, plan)
	return nil
}

func withSocial(shared *diet.SharedMealPlan, plan diet.MealPlan) {
	shared.Comments = plan.Comments
	shared.Ratings = plan.Ratings
	if shared.Comments == nil {
		shared.Comments = []diet.Comment{}
	}
	if shared.Ratings == nil {
		shared.Ratings = []diet.Rating{}
	}
	shared.AverageRating = mealplan.AverageRating(shared.Ratings)
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

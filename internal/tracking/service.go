package tracking

import (
	"context"
	"fmt"
	"time"

	"DietAPI/internal/diet"
	"DietAPI/internal/metrics"
)

// ComplianceSource scores a plan for a blood type on behalf of a user.
// *mealplan.Service satisfies it.
type ComplianceSource interface {
	Compliance(ctx context.Context, userID int64, planID string, bt diet.BloodType) (float64, error)
}

type Summary struct {
	Entries       int      `json:"entries"`
	StartWeight   *float64 `json:"startWeight,omitempty"`
	CurrentWeight *float64 `json:"currentWeight,omitempty"`
	Change        float64  `json:"change"`
	PlanID        string   `json:"planId,omitempty"`
	Compliance    *float64 `json:"complianceRate,omitempty"`
}

type Service struct {
	repo    *Repository
	plans   ComplianceSource
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo *Repository, plans ComplianceSource, m *metrics.Metrics) *Service {
	return &Service{repo: repo, plans: plans, metrics: m, now: time.Now}
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddWeight appends an entry for the day of date, today when date is zero.
func (s *Service) AddWeight(ctx context.Context, userID int64, weight float64, date time.Time) (diet.WeightEntry, error) {
	if weight <= 0 {
		return diet.WeightEntry{}, fmt.Errorf("%w: got %v", diet.ErrInvalidWeight, weight)
	}
	if date.IsZero() {
		date = s.now()
	}
	entry, err := s.repo.Add(ctx, diet.WeightEntry{UserID: userID, Date: Day(date), Weight: weight})
	if err != nil {
		return diet.WeightEntry{}, err
	}
	s.metrics.Record(metrics.EventWeightRecorded)
	return entry, nil
}

func (s *Service) History(ctx context.Context, userID int64, from, to time.Time) ([]diet.WeightEntry, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return []diet.WeightEntry{}, nil
	}
	return s.repo.Range(ctx, userID, from, to)
}

// Summary reports the weight trend and, when planID and bt are given, how
// well that plan suits bt.
func (s *Service) Summary(ctx context.Context, userID int64, planID string, bt diet.BloodType) (Summary, error) {
	entries, err := s.repo.Range(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Entries: len(entries), PlanID: planID}
	if n := len(entries); n > 0 {
		first, last := entries[0].Weight, entries[n-1].Weight
		sum.StartWeight = &first
		sum.CurrentWeight = &last
		sum.Change = last - first
	}

	if planID != "" && bt != "" {
		score, err := s.plans.Compliance(ctx, userID, planID, bt)
		if err != nil {
			return Summary{}, err
		}
		sum.Compliance = &score
	}
	return sum, nil
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

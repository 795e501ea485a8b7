package mealplan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"DietAPI/internal/diet"
)

type Repository struct {
	db *sql.DB
}

// NewRepository creates a new meal plan repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new plan. The plan is expected to be empty, as CreatePlan
// returns it.
func (r *Repository) Create(ctx context.Context, plan diet.MealPlan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (id, user_id, title, is_public, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.UserID, plan.Title, plan.IsPublic, plan.Version, plan.CreatedAt.UTC(), plan.UpdatedAt.UTC(),
	)
	return err
}

// Get loads a full plan: header, weeks, ratings and comments.
func (r *Repository) Get(ctx context.Context, id string) (diet.MealPlan, error) {
	var p diet.MealPlan
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, is_public, version, created_at, updated_at
		FROM meal_plans WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.IsPublic, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return diet.MealPlan{}, fmt.Errorf("meal plan %s: %w", id, diet.ErrNotFound)
	}
	if err != nil {
		return diet.MealPlan{}, err
	}

	if p.WeeklyPlans, err = r.loadWeeks(ctx, id); err != nil {
		return diet.MealPlan{}, err
	}
	if p.Ratings, err = r.loadRatings(ctx, id); err != nil {
		return diet.MealPlan{}, err
	}
	if p.Comments, err = r.loadComments(ctx, id); err != nil {
		return diet.MealPlan{}, err
	}
	return p, nil
}

// ListByUser returns the user's plans, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]diet.MealPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	plans := make([]diet.MealPlan, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Save writes plan back if the stored version still equals plan.Version and
// returns the plan with its new version. A stale version yields
// ErrVersionConflict.
func (r *Repository) Save(ctx context.Context, plan diet.MealPlan) (diet.MealPlan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return diet.MealPlan{}, err
	}
	// Defer a rollback in case anything fails.
	defer func() {
		_ = tx.Rollback()
	}()

	updatedAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE meal_plans SET title = ?, is_public = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		plan.Title, plan.IsPublic, updatedAt, plan.ID, plan.Version,
	)
	if err != nil {
		return diet.MealPlan{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return diet.MealPlan{}, err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM meal_plans WHERE id = ?", plan.ID).Scan(&exists)
		if err != nil {
			return diet.MealPlan{}, err
		}
		if exists == 0 {
			return diet.MealPlan{}, fmt.Errorf("meal plan %s: %w", plan.ID, diet.ErrNotFound)
		}
		return diet.MealPlan{}, fmt.Errorf("meal plan %s at version %d: %w", plan.ID, plan.Version, diet.ErrVersionConflict)
	}

	if err := writeWeeks(ctx, tx, plan); err != nil {
		return diet.MealPlan{}, err
	}
	if err := writeSocial(ctx, tx, plan); err != nil {
		return diet.MealPlan{}, err
	}
	if err := tx.Commit(); err != nil {
		return diet.MealPlan{}, err
	}

	out := plan.Clone()
	out.Version++
	out.UpdatedAt = updatedAt
	return out, nil
}

// SaveSocial stores the plan's ratings and comments. They are not part of
// the versioned plan content, so version and updated_at stay as they are.
func (r *Repository) SaveSocial(ctx context.Context, plan diet.MealPlan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := writeSocial(ctx, tx, plan); err != nil {
		return err
	}
	return tx.Commit()
}

func writeWeeks(ctx context.Context, tx *sql.Tx, plan diet.MealPlan) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM meal_items WHERE plan_id = ?", plan.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM meal_days WHERE plan_id = ?", plan.ID); err != nil {
		return err
	}

	dayStmt, err := tx.PrepareContext(ctx, "INSERT INTO meal_days (plan_id, week_id, day_id) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer dayStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO meal_items (id, plan_id, week_id, day_id, slot, position, food_id, portion_size, portion_unit, time_to_eat)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	for weekID, days := range plan.WeeklyPlans {
		for dayID, day := range days {
			if _, err := dayStmt.ExecContext(ctx, plan.ID, weekID, dayID); err != nil {
				return err
			}
			for _, slot := range diet.Slots {
				for pos, item := range day.Slot(slot) {
					if _, err := itemStmt.ExecContext(ctx,
						item.ID, plan.ID, weekID, dayID, slot, pos,
						item.FoodID, item.PortionSize, item.PortionUnit, item.TimeToEat,
					); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// writeSocial syncs ratings and comments. Ratings are upserted per user,
// comments are only ever added.
func writeSocial(ctx context.Context, tx *sql.Tx, plan diet.MealPlan) error {
	for _, rt := range plan.Ratings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ratings (meal_plan_id, user_id, score, date) VALUES (?, ?, ?, ?)
			ON CONFLICT (meal_plan_id, user_id) DO UPDATE SET score = excluded.score, date = excluded.date`,
			plan.ID, rt.UserID, rt.Score, rt.Date.UTC(),
		); err != nil {
			return err
		}
	}
	for _, c := range plan.Comments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO comments (id, meal_plan_id, user_id, user_name, content, date) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, plan.ID, c.UserID, c.UserName, c.Content, c.Date.UTC(),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) loadWeeks(ctx context.Context, planID string) (diet.WeeklyPlans, error) {
	weeks := diet.WeeklyPlans{}

	rows, err := r.db.QueryContext(ctx, "SELECT week_id, day_id FROM meal_days WHERE plan_id = ?", planID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var weekID, dayID string
		if err := rows.Scan(&weekID, &dayID); err != nil {
			rows.Close()
			return nil, err
		}
		if weeks[weekID] == nil {
			weeks[weekID] = map[string]diet.DailyMeals{}
		}
		weeks[weekID][dayID] = diet.NewDailyMeals()
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, week_id, day_id, slot, food_id, portion_size, portion_unit, time_to_eat
		FROM meal_items WHERE plan_id = ?
		ORDER BY week_id, day_id, slot, position`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item diet.MealItem
		var weekID, dayID string
		var slot diet.Slot
		if err := rows.Scan(&item.ID, &weekID, &dayID, &slot, &item.FoodID, &item.PortionSize, &item.PortionUnit, &item.TimeToEat); err != nil {
			return nil, err
		}
		if weeks[weekID] == nil {
			weeks[weekID] = map[string]diet.DailyMeals{}
		}
		day, ok := weeks[weekID][dayID]
		if !ok {
			day = diet.NewDailyMeals()
		}
		day.SetSlot(slot, append(day.Slot(slot), item))
		weeks[weekID][dayID] = day
	}
	return weeks, rows.Err()
}

func (r *Repository) loadRatings(ctx context.Context, planID string) ([]diet.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, score, date FROM ratings WHERE meal_plan_id = ? ORDER BY date, user_id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []diet.Rating{}
	for rows.Next() {
		var rt diet.Rating
		if err := rows.Scan(&rt.UserID, &rt.Score, &rt.Date); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

func (r *Repository) loadComments(ctx context.Context, planID string) ([]diet.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_name, content, date FROM comments WHERE meal_plan_id = ? ORDER BY date, id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []diet.Comment{}
	for rows.Next() {
		var c diet.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserName, &c.Content, &c.Date); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
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

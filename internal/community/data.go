package community

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"DietAPI/internal/diet"
)

// Repository stores shared plan snapshots. Comments and ratings live with the
// meal plan itself and are not part of this table.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const sharedColumns = `id, meal_plan_id, user_id, user_name, title, description, date_shared, snapshot`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShared(row rowScanner) (diet.SharedMealPlan, error) {
	var s diet.SharedMealPlan
	var snapshot string
	if err := row.Scan(&s.ID, &s.MealPlanID, &s.UserID, &s.UserName, &s.Title, &s.Description, &s.DateShared, &snapshot); err != nil {
		return diet.SharedMealPlan{}, err
	}
	if err := json.Unmarshal([]byte(snapshot), &s.Snapshot); err != nil {
		return diet.SharedMealPlan{}, fmt.Errorf("shared plan %s: decode snapshot: %w", s.ID, err)
	}
	if s.Snapshot == nil {
		s.Snapshot = diet.WeeklyPlans{}
	}
	return s, nil
}

// Upsert publishes s. A plan can be shared once; sharing it again replaces
// title, description, snapshot and date but keeps the existing id, which is
// returned.
func (r *Repository) Upsert(ctx context.Context, s diet.SharedMealPlan) (string, error) {
	snapshot, err := json.Marshal(s.Snapshot)
	if err != nil {
		return "", err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shared_plans (`+sharedColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (meal_plan_id) DO UPDATE SET
			user_name = excluded.user_name,
			title = excluded.title,
			description = excluded.description,
			date_shared = excluded.date_shared,
			snapshot = excluded.snapshot`,
		s.ID, s.MealPlanID, s.UserID, s.UserName, s.Title, s.Description, s.DateShared.UTC(), string(snapshot),
	)
	if err != nil {
		return "", err
	}

	var id string
	err = r.db.QueryRowContext(ctx, "SELECT id FROM shared_plans WHERE meal_plan_id = ?", s.MealPlanID).Scan(&id)
	return id, err
}

func (r *Repository) Get(ctx context.Context, id string) (diet.SharedMealPlan, error) {
	s, err := scanShared(r.db.QueryRowContext(ctx, `SELECT `+sharedColumns+` FROM shared_plans WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return diet.SharedMealPlan{}, fmt.Errorf("shared plan %s: %w", id, diet.ErrNotFound)
	}
	return s, err
}

// List returns a page of the feed, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]diet.SharedMealPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sharedColumns+` FROM shared_plans
		ORDER BY date_shared DESC, id
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []diet.SharedMealPlan{}
	for rows.Next() {
		s, err := scanShared(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM shared_plans WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("shared plan %s: %w", id, diet.ErrNotFound)
	}
	return nil
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

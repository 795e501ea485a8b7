package tracking

import (
	"context"
	"database/sql"
	"time"

	"DietAPI/internal/diet"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Add(ctx context.Context, e diet.WeightEntry) (diet.WeightEntry, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO weight_entries (user_id, date, weight) VALUES (?, ?, ?)",
		e.UserID, e.Date.UTC(), e.Weight,
	)
	if err != nil {
		return diet.WeightEntry{}, err
	}
	e.ID, err = res.LastInsertId()
	return e, err
}

// Range returns the user's entries between from and to inclusive, oldest
// first. A zero bound leaves that side open.
func (r *Repository) Range(ctx context.Context, userID int64, from, to time.Time) ([]diet.WeightEntry, error) {
	query := "SELECT id, user_id, date, weight FROM weight_entries WHERE user_id = ?"
	args := []any{userID}
	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		query += " AND date <= ?"
		args = append(args, to.UTC())
	}
	query += " ORDER BY date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []diet.WeightEntry{}
	for rows.Next() {
		var e diet.WeightEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Weight); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
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

package mealplan

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DietAPI/internal/auth"
	"DietAPI/internal/common"
	"DietAPI/internal/database"
	"DietAPI/internal/diet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

type api struct {
	router   *gin.Engine
	users    *auth.Repository
	sessions *auth.SessionStore
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newAPIWithDB(t, db)
}

func newAPIWithDB(t *testing.T, db *sql.DB) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := auth.NewRepository(db)
	sessions := auth.NewSessionStore(users, time.Hour, false)
	mw := auth.NewMiddleware(auth.NewTokenStore(users), sessions)

	r := gin.New()
	r.Use(common.RequestID())
	RegisterRoutes(r.Group("/api/v0"), NewHandler(NewService(NewRepository(db), testFoods(), nil)), mw)
	return &api{router: r, users: users, sessions: sessions}
}

// login creates a user and returns its session id
func (a *api) login(t *testing.T, email string, bt diet.BloodType) string {
	t.Helper()
	ctx := context.Background()
	u, err := a.users.CreateUser(ctx, email, email, 5)
	require.NoError(t, err)
	if bt != "" {
		require.NoError(t, a.users.UpdateProfile(ctx, u.ID, nil, &bt))
	}
	s, err := a.sessions.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	return s.ID
}

func (a *api) do(t *testing.T, session, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: session})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestPlanEndpoints(t *testing.T) {
	a := newAPI(t)
	session := a.login(t, "ana@example.com", diet.APositive)

	code, _ := a.do(t, "", http.MethodPost, "/api/v0/plans", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(t, session, http.MethodPost, "/api/v0/plans", gin.H{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := a.do(t, session, http.MethodPost, "/api/v0/plans", gin.H{"title": "Week"})
	require.Equal(t, http.StatusCreated, code, env.Errors)
	plan := decode[diet.MealPlan](t, env)
	base := "/api/v0/plans/" + plan.ID

	code, env = a.do(t, session, http.MethodPost, base+"/weeks/w1/days/d1/breakfast", gin.H{"foodId": "f1", "portionSize": 100})
	require.Equal(t, http.StatusCreated, code, env.Errors)
	added := decode[AddMealResponse](t, env)
	assert.Equal(t, "g", added.Item.PortionUnit)
	assert.Equal(t, int64(1), added.Plan.Version)

	code, env = a.do(t, session, http.MethodGet, base+"/weeks/w1/days/d1", nil)
	require.Equal(t, http.StatusOK, code)
	day := decode[diet.DailyMeals](t, env)
	assert.Equal(t, []diet.MealItem{added.Item}, day.Breakfast)

	code, env = a.do(t, session, http.MethodGet, base+"/compliance", nil)
	require.Equal(t, http.StatusOK, code, env.Errors)
	compliance := decode[ComplianceResponse](t, env)
	assert.Equal(t, diet.APositive, compliance.BloodType)
	assert.Equal(t, 100.0, compliance.Compliance)

	code, env = a.do(t, session, http.MethodGet, base+"/shopping-list", nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[struct {
		Items map[string]float64 `json:"items"`
	}](t, env)
	assert.Equal(t, map[string]float64{"f1": 100}, list.Items)

	code, env = a.do(t, session, http.MethodGet, base+"/shopping-list?grouped=true", nil)
	require.Equal(t, http.StatusOK, code)
	grouped := decode[struct {
		Sections map[diet.StoreSection][]ShoppingEntry `json:"sections"`
	}](t, env)
	assert.Len(t, grouped.Sections[diet.SectionProduce], 1)

	code, env = a.do(t, session, http.MethodGet, base+"/weeks/w1/days/d1/nutrition", nil)
	require.Equal(t, http.StatusOK, code)
	nutrition := decode[NutritionResponse](t, env)
	assert.InDelta(t, 23, nutrition.Total.Calories, 1e-9)

	code, env = a.do(t, session, http.MethodDelete, base+"/weeks/w1/days/d1/breakfast/"+added.Item.ID, nil)
	require.Equal(t, http.StatusOK, code, env.Errors)
	assert.Empty(t, decode[diet.MealPlan](t, env).WeeklyPlans["w1"]["d1"].Breakfast)

	code, env = a.do(t, session, http.MethodPatch, base, gin.H{"title": "Renamed", "isPublic": true})
	require.Equal(t, http.StatusOK, code, env.Errors)
	patched := decode[diet.MealPlan](t, env)
	assert.Equal(t, "Renamed", patched.Title)
	assert.True(t, patched.IsPublic)

	code, env = a.do(t, session, http.MethodGet, "/api/v0/plans", nil)
	require.Equal(t, http.StatusOK, code)
	plans := decode[struct {
		Plans []diet.MealPlan `json:"plans"`
	}](t, env)
	assert.Len(t, plans.Plans, 1)
}

func TestPlanEndpointErrors(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "ana@example.com", "")
	other := a.login(t, "bo@example.com", diet.OPositive)

	_, env := a.do(t, owner, http.MethodPost, "/api/v0/plans", gin.H{"title": "Mine"})
	plan := decode[diet.MealPlan](t, env)
	base := "/api/v0/plans/" + plan.ID

	tests := []struct {
		name    string
		session string
		method  string
		path    string
		body    any
		want    int
	}{
		{"unknown slot", owner, http.MethodPost, base + "/weeks/w1/days/d1/brunch", gin.H{"foodId": "f1", "portionSize": 1}, http.StatusBadRequest},
		{"zero portion", owner, http.MethodPost, base + "/weeks/w1/days/d1/lunch", gin.H{"foodId": "f1", "portionSize": 0}, http.StatusBadRequest},
		{"missing food", owner, http.MethodPost, base + "/weeks/w1/days/d1/lunch", gin.H{"portionSize": 1}, http.StatusBadRequest},
		{"private plan is hidden", other, http.MethodGet, base, nil, http.StatusNotFound},
		{"foreign write", other, http.MethodPost, base + "/weeks/w1/days/d1/lunch", gin.H{"foodId": "f1", "portionSize": 1}, http.StatusForbidden},
		{"missing plan", owner, http.MethodGet, "/api/v0/plans/nope", nil, http.StatusNotFound},
		{"no blood type", owner, http.MethodGet, base + "/compliance", nil, http.StatusBadRequest},
		{"bad blood type", owner, http.MethodGet, base + "/compliance?bloodType=Z", nil, http.StatusBadRequest},
		{"bad version", owner, http.MethodDelete, base + "/weeks/w1/days/d1/lunch/x?version=abc", nil, http.StatusBadRequest},
		{"stale version", owner, http.MethodPatch, base, gin.H{"title": "T", "version": 7}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := a.do(t, tt.session, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code, env.Errors)
			assert.NotEmpty(t, env.Errors)
		})
	}

	t.Run("query blood type overrides the profile", func(t *testing.T) {
		code, env := a.do(t, owner, http.MethodGet, base+"/compliance?bloodType=b", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, diet.BPositive, decode[ComplianceResponse](t, env).BloodType)
	})

	t.Run("delete with the current version", func(t *testing.T) {
		code, env := a.do(t, owner, http.MethodDelete, base+"/weeks/w1/days/d1/lunch/x?version=0", nil)
		require.Equal(t, http.StatusOK, code, env.Errors)
	})
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

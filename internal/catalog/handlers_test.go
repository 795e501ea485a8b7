package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"DietAPI/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(common.RequestID())
	RegisterRoutes(r.Group("/api/v0"), NewHandler(testCatalog(t)))
	return r
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

func get(t *testing.T, r http.Handler, path string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestListFoods(t *testing.T) {
	r := newTestRouter(t)

	t.Run("all", func(t *testing.T) {
		code, env := get(t, r, "/api/v0/foods")
		require.Equal(t, http.StatusOK, code)
		var data struct {
			Foods []FoodView `json:"foods"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Len(t, data.Foods, 3)
		assert.Empty(t, data.Foods[0].Compatibility)
	})

	t.Run("blank search is empty", func(t *testing.T) {
		code, env := get(t, r, "/api/v0/foods?q=")
		require.Equal(t, http.StatusOK, code)
		var data struct {
			Foods []FoodView `json:"foods"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Empty(t, data.Foods)
	})

	t.Run("category filter", func(t *testing.T) {
		code, env := get(t, r, "/api/v0/foods?category=meat")
		require.Equal(t, http.StatusOK, code)
		var data struct {
			Foods []FoodView `json:"foods"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Foods, 1)
		assert.Equal(t, "Beef", data.Foods[0].Name)
	})

	t.Run("unknown category", func(t *testing.T) {
		code, env := get(t, r, "/api/v0/foods?category=candy")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.NotEmpty(t, env.Errors)
	})

	t.Run("blood type annotation and filter", func(t *testing.T) {
		code, env := get(t, r, "/api/v0/foods?bloodType=O%2B&compatibility=beneficial")
		require.Equal(t, http.StatusOK, code)
		var data struct {
			Foods []FoodView `json:"foods"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.Foods, 2)
		for _, f := range data.Foods {
			assert.Equal(t, "beneficial", string(f.Compatibility))
		}
	})

	t.Run("bad blood type", func(t *testing.T) {
		code, _ := get(t, r, "/api/v0/foods?bloodType=Z")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestGetFoodAndCompatibility(t *testing.T) {
	r := newTestRouter(t)

	code, _ := get(t, r, "/api/v0/foods/f2")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get(t, r, "/api/v0/foods/nope")
	assert.Equal(t, http.StatusNotFound, code)

	code, env := get(t, r, "/api/v0/foods/f2/compatibility/A-")
	require.Equal(t, http.StatusOK, code)
	var resp CompatibilityResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "neutral", string(resp.Compatibility))
	assert.Equal(t, "A-", string(resp.BloodType))
}

func TestListHerbs(t *testing.T) {
	r := newTestRouter(t)

	code, env := get(t, r, "/api/v0/herbs?bloodType=AB-")
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Herbs []struct {
			ID string `json:"id"`
		} `json:"herbs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Herbs, 1)
	assert.Equal(t, "h1", data.Herbs[0].ID)

	code, _ = get(t, r, "/api/v0/herbs/h9")
	assert.Equal(t, http.StatusNotFound, code)
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

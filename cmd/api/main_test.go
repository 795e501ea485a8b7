package main

import (
	"path/filepath"
	"testing"

	"DietAPI/internal/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	t.Run("built-in data by default", func(t *testing.T) {
		t.Setenv(env.EnvCatalogPath, "")
		c, err := loadCatalog()
		require.NoError(t, err)
		assert.Positive(t, c.FoodCount())
		assert.Positive(t, c.HerbCount())
	})

	t.Run("path from the environment", func(t *testing.T) {
		t.Setenv(env.EnvCatalogPath, filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := loadCatalog()
		assert.Error(t, err)
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

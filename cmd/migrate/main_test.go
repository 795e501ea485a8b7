package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "diet.db")

	out, err := run(t, "version", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, "up", "--db", db)
	require.NoError(t, err)

	out, err = run(t, "version", "--db", db)
	require.NoError(t, err)
	assert.NotEqual(t, "0\n", out)

	_, err = run(t, "down", "nope", "--db", db)
	assert.Error(t, err)

	_, err = run(t, "down", "--db", db)
	require.NoError(t, err)
	out, err = run(t, "version", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestCatalogValidate(t *testing.T) {
	out, err := run(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog ok")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("foods:\n  - id: x\n    bogus: true\n"), 0o644))
	_, err = run(t, "catalog", "validate", bad)
	assert.Error(t, err)
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

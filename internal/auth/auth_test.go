package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"DietAPI/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo     *Repository
	sessions *SessionStore
	states   *OAuthStateStore
	tokens   *TokenStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	return &fixture{
		repo:     repo,
		sessions: NewSessionStore(repo, time.Hour, false),
		states:   NewOAuthStateStore(repo),
		tokens:   NewTokenStore(repo),
	}
}

func (f *fixture) user(t *testing.T, email string) *User {
	t.Helper()
	u, err := f.repo.CreateUser(context.Background(), email, "Test "+email, 2)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func TestRepositoryUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "ana@example.com")
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, StatusActive, u.Status)
	assert.Equal(t, 2, u.MaxTokens)
	assert.Empty(t, u.BloodType)

	missing, err := f.repo.GetUserByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byEmail, err := f.repo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = f.repo.CreateUser(ctx, "ana@example.com", "dup", 2)
	assert.Error(t, err)

	f.user(t, "bo@example.com")
	users, err := f.repo.GetAllUsers(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestOAuthIdentities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	none, err := f.repo.GetOAuthIdentity(ctx, ProviderGitHub, "42")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, f.repo.CreateOAuthIdentity(ctx, u.ID, ProviderGitHub, "42", "at", "rt"))
	identity, err := f.repo.GetOAuthIdentity(ctx, ProviderGitHub, "42")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, u.ID, identity.UserID)

	require.NoError(t, f.repo.UpdateOAuthIdentityTokens(ctx, identity.ID, "at2", ""))
}

func TestSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	s, err := f.sessions.CreateSession(ctx, u.ID)
	require.NoError(t, err)

	got, err := f.sessions.GetUserFromSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.sessions.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// An expired session is invisible and swept by cleanup
	_, err = f.repo.DB().ExecContext(ctx, "UPDATE sessions SET expires_at = ? WHERE id = ?", time.Now().UTC().Add(-time.Minute), s.ID)
	require.NoError(t, err)
	_, err = f.sessions.GetSession(ctx, s.ID)
	assert.Error(t, err)

	n, err := f.sessions.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	s2, err := f.sessions.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, f.sessions.DeleteUserSessions(ctx, u.ID))
	_, err = f.sessions.GetSession(ctx, s2.ID)
	assert.Error(t, err)
}

func TestOAuthStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	state, err := f.states.CreateState(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	ok, err := f.states.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)

	// single use
	ok, err = f.states.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)

	expired, err := f.states.CreateState(ctx)
	require.NoError(t, err)
	_, err = f.repo.DB().ExecContext(ctx, "UPDATE oauth_states SET expires_at = ? WHERE state = ?", time.Now().UTC().Add(-time.Minute), expired)
	require.NoError(t, err)

	ok, err = f.states.ValidateState(ctx, expired)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := f.states.CleanupExpiredStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJanitorSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	s, err := f.sessions.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.repo.DB().ExecContext(ctx, "UPDATE sessions SET expires_at = ?", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	j := NewJanitor(f.sessions, f.states, time.Hour)
	j.Start(ctx)
	j.Sweep(ctx)
	j.Stop()
	j.Stop()

	var count int
	require.NoError(t, f.repo.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE id = ?", s.ID).Scan(&count))
	assert.Zero(t, count)
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

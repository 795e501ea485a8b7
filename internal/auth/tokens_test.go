package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	raw, hash, err := GenerateToken()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, TokenPrefix))
	assert.Equal(t, hashToken(raw), hash)

	other, _, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}

func TestTokenLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	created, err := f.tokens.CreateUserToken(ctx, u.ID, " phone ", nil)
	require.NoError(t, err)
	assert.Equal(t, "phone", created.Label)

	validated, err := f.tokens.ValidateToken(ctx, created.RawToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, validated.User.ID)
	assert.Equal(t, created.ID, validated.Token.ID)

	list, err := f.tokens.ListUserTokens(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].TokenHash)

	require.NoError(t, f.tokens.RevokeToken(ctx, created.ID, u.ID))
	_, err = f.tokens.ValidateToken(ctx, created.RawToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.ErrorIs(t, f.tokens.RevokeToken(ctx, created.ID, u.ID), ErrTokenNotFound)
}

func TestCreateUserTokenValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	_, err := f.tokens.CreateUserToken(ctx, u.ID, "  ", nil)
	assert.Error(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = f.tokens.CreateUserToken(ctx, u.ID, "old", &past)
	assert.Error(t, err)

	_, err = f.tokens.CreateUserToken(ctx, 999, "ghost", nil)
	assert.Error(t, err)

	// the fixture allows two active tokens
	for _, label := range []string{"a", "b"} {
		_, err := f.tokens.CreateUserToken(ctx, u.ID, label, nil)
		require.NoError(t, err)
	}
	_, err = f.tokens.CreateUserToken(ctx, u.ID, "c", nil)
	assert.ErrorIs(t, err, ErrTokenLimit)
}

func TestValidateTokenRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	_, err := f.tokens.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.tokens.ValidateToken(ctx, TokenPrefix+"unknown")
	assert.ErrorIs(t, err, ErrInvalidToken)

	soon := time.Now().Add(time.Hour)
	tok, err := f.tokens.CreateUserToken(ctx, u.ID, "short", &soon)
	require.NoError(t, err)
	_, err = f.repo.DB().ExecContext(ctx, "UPDATE tokens SET expires_at = ? WHERE id = ?", time.Now().UTC().Add(-time.Minute), tok.ID)
	require.NoError(t, err)
	_, err = f.tokens.ValidateToken(ctx, tok.RawToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	live, err := f.tokens.CreateUserToken(ctx, u.ID, "live", nil)
	require.NoError(t, err)
	suspended := StatusSuspended
	require.NoError(t, f.repo.UpdateUser(ctx, u.ID, nil, &suspended, nil))
	_, err = f.tokens.ValidateToken(ctx, live.RawToken)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAdminRevokeToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ana@example.com")

	tok, err := f.tokens.CreateUserToken(ctx, u.ID, "x", nil)
	require.NoError(t, err)
	require.NoError(t, f.tokens.AdminRevokeToken(ctx, tok.ID))
	assert.ErrorIs(t, f.tokens.AdminRevokeToken(ctx, tok.ID), ErrTokenNotFound)

	// revoked tokens no longer count towards the limit
	count, err := f.repo.GetUserTokenCount(ctx, u.ID)
	require.NoError(t, err)
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

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOAuthConfig(t *testing.T) {
	cfg := NewOAuthConfig(ProviderConfig{}, ProviderConfig{ClientID: "id", ClientSecret: "s"}, "https://diet.example")
	assert.False(t, cfg.IsProviderConfigured(ProviderGoogle))
	assert.True(t, cfg.IsProviderConfigured(ProviderGitHub))
	assert.Equal(t, "https://diet.example/api/auth/callback/github", cfg.GitHub.RedirectURL)

	url, err := cfg.GetAuthURL(ProviderGitHub, "st")
	require.NoError(t, err)
	assert.Contains(t, url, "state=st")

	_, err = cfg.GetAuthURL(ProviderGoogle, "st")
	assert.Error(t, err)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("github")
	require.NoError(t, err)
	assert.Equal(t, ProviderGitHub, p)

	_, err = ParseProvider("GitHub")
	assert.Error(t, err)
}

func TestPickGitHubEmail(t *testing.T) {
	email, err := pickGitHubEmail([]GitHubEmail{
		{Email: "old@example.com", Verified: true},
		{Email: "main@example.com", Primary: true, Verified: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "main@example.com", email)

	email, err = pickGitHubEmail([]GitHubEmail{
		{Email: "unverified@example.com", Primary: true},
		{Email: "ok@example.com", Verified: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok@example.com", email)

	_, err = pickGitHubEmail(nil)
	assert.Error(t, err)
}

func profileServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/google", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "g-1", "email": "ana@example.com", "name": ""})
	})
	r.GET("/github/user", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": 7, "login": "ana", "email": ""})
	})
	r.GET("/github/user/emails", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"email": "ana@users.example", "primary": true, "verified": true}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestProviderUserInfo(t *testing.T) {
	srv := profileServer(t)
	cfg := NewOAuthConfig(ProviderConfig{}, ProviderConfig{}, "")
	cfg.googleUserInfoURL = srv.URL + "/google"
	cfg.githubAPIURL = srv.URL + "/github"

	google, err := cfg.getGoogleUserInfo(srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "g-1", google.ProviderID)
	assert.Equal(t, "ana@example.com", google.DisplayName)

	github, err := cfg.getGitHubUserInfo(srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "7", github.ProviderID)
	assert.Equal(t, "ana@users.example", github.Email)
	assert.Equal(t, "ana", github.DisplayName)

	cfg.googleUserInfoURL = srv.URL + "/missing"
	_, err = cfg.getGoogleUserInfo(srv.Client())
	assert.Error(t, err)
}

func TestFindOrCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := NewHandler(f.repo, NewOAuthConfig(ProviderConfig{}, ProviderConfig{}, ""), f.states, f.sessions, f.tokens, 3)

	info := &OAuthUserInfo{ProviderID: "7", Email: "ana@example.com", DisplayName: "Ana"}
	first, err := h.findOrCreateUser(ctx, info, ProviderGitHub, "at", "")
	require.NoError(t, err)
	assert.Equal(t, 3, first.MaxTokens)

	again, err := h.findOrCreateUser(ctx, info, ProviderGitHub, "at2", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// same email through another provider links to the same account
	linked, err := h.findOrCreateUser(ctx, &OAuthUserInfo{ProviderID: "g-1", Email: "ana@example.com"}, ProviderGoogle, "at", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, linked.ID)
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

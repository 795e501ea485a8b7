package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubAPIURL      = "https://api.github.com"
)

// OAuthConfig holds configuration for all OAuth providers
type OAuthConfig struct {
	Google *oauth2.Config
	GitHub *oauth2.Config

	// Profile endpoints; tests point them at a local server.
	googleUserInfoURL string
	githubAPIURL      string
}

// OAuthUserInfo represents user info returned from OAuth providers
type OAuthUserInfo struct {
	ProviderID  string
	Email       string
	DisplayName string
}

// ProviderConfig holds the credentials for an OAuth provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
}

// NewOAuthConfig configures every provider that has credentials. The
// callback URLs point at /api/auth/callback/:provider under callbackBaseURL.
func NewOAuthConfig(googleCfg, githubCfg ProviderConfig, callbackBaseURL string) *OAuthConfig {
	config := &OAuthConfig{
		googleUserInfoURL: googleUserInfoURL,
		githubAPIURL:      githubAPIURL,
	}

	if googleCfg.ClientID != "" && googleCfg.ClientSecret != "" {
		config.Google = &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  callbackBaseURL + "/api/auth/callback/google",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	if githubCfg.ClientID != "" && githubCfg.ClientSecret != "" {
		config.GitHub = &oauth2.Config{
			ClientID:     githubCfg.ClientID,
			ClientSecret: githubCfg.ClientSecret,
			RedirectURL:  callbackBaseURL + "/api/auth/callback/github",
			Scopes:       []string{"user:email", "read:user"},
			Endpoint:     github.Endpoint,
		}
	}

	return config
}

// ParseProvider accepts the provider names used in the login routes
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderGoogle, ProviderGitHub:
		return p, nil
	}
	return "", fmt.Errorf("unsupported provider: %s", s)
}

// GetAuthURL returns the OAuth authorization URL for a provider
func (c *OAuthConfig) GetAuthURL(provider Provider, state string) (string, error) {
	cfg, err := c.getConfig(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ExchangeCode exchanges an authorization code for tokens
func (c *OAuthConfig) ExchangeCode(ctx context.Context, provider Provider, code string) (*oauth2.Token, error) {
	cfg, err := c.getConfig(provider)
	if err != nil {
		return nil, err
	}
	return cfg.Exchange(ctx, code)
}

// GetUserInfo fetches user information from the OAuth provider
func (c *OAuthConfig) GetUserInfo(ctx context.Context, provider Provider, token *oauth2.Token) (*OAuthUserInfo, error) {
	cfg, err := c.getConfig(provider)
	if err != nil {
		return nil, err
	}
	client := cfg.Client(ctx, token)

	switch provider {
	case ProviderGoogle:
		return c.getGoogleUserInfo(client)
	case ProviderGitHub:
		return c.getGitHubUserInfo(client)
	}
	return nil, fmt.Errorf("unsupported provider: %s", provider)
}

func (c *OAuthConfig) getConfig(provider Provider) (*oauth2.Config, error) {
	switch provider {
	case ProviderGoogle:
		if c.Google == nil {
			return nil, fmt.Errorf("google OAuth not configured")
		}
		return c.Google, nil
	case ProviderGitHub:
		if c.GitHub == nil {
			return nil, fmt.Errorf("github OAuth not configured")
		}
		return c.GitHub, nil
	}
	return nil, fmt.Errorf("unsupported provider: %s", provider)
}

// IsProviderConfigured checks if a provider is configured
func (c *OAuthConfig) IsProviderConfigured(provider Provider) bool {
	_, err := c.getConfig(provider)
	return err == nil
}

// getJSON GETs url and decodes a 200 response into out
func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GoogleUserInfo represents Google's userinfo response
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (c *OAuthConfig) getGoogleUserInfo(client *http.Client) (*OAuthUserInfo, error) {
	var info GoogleUserInfo
	if err := getJSON(client, c.googleUserInfoURL, &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("email not provided by Google")
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Email
	}
	return &OAuthUserInfo{
		ProviderID:  info.ID,
		Email:       info.Email,
		DisplayName: displayName,
	}, nil
}

// GitHubUserInfo represents GitHub's user response
type GitHubUserInfo struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GitHubEmail represents a GitHub email response
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (c *OAuthConfig) getGitHubUserInfo(client *http.Client) (*OAuthUserInfo, error) {
	var info GitHubUserInfo
	if err := getJSON(client, c.githubAPIURL+"/user", &info); err != nil {
		return nil, err
	}

	// Private emails are only listed on the emails endpoint
	email := info.Email
	if email == "" {
		var emails []GitHubEmail
		if err := getJSON(client, c.githubAPIURL+"/user/emails", &emails); err != nil {
			return nil, err
		}
		var err error
		if email, err = pickGitHubEmail(emails); err != nil {
			return nil, err
		}
	}

	displayName := info.Name
	if displayName == "" {
		displayName = info.Login
	}
	return &OAuthUserInfo{
		ProviderID:  strconv.FormatInt(info.ID, 10),
		Email:       email,
		DisplayName: displayName,
	}, nil
}

// pickGitHubEmail prefers the primary verified address, then any verified one.
func pickGitHubEmail(emails []GitHubEmail) (string, error) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("no verified email found")
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

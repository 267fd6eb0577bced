package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type githubAPIResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type GitHubProvider struct {
	config *oauth2.Config
}

func NewGitHubProvider(config *oauth2.Config) *GitHubProvider {
	return &GitHubProvider{config: config}
}

func (p *GitHubProvider) Name() string { return GitHub }

func (p *GitHubProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return exchangeCode(ctx, p.config, p.Name(), code)
}

// GetUserInfo reads the profile and then the email list, since the profile
// endpoint omits private addresses.
func (p *GitHubProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	logger := slog.With("provider", GitHub, "operation", "get_user_info")
	client := p.config.Client(ctx, token)

	var raw githubAPIResponse
	if err := getJSON(client, githubUserURL, &raw); err != nil {
		logger.Error("Failed to fetch GitHub user info", "error", err)
		return nil, fmt.Errorf("github user info: %w", err)
	}
	if raw.ID == 0 {
		return nil, fmt.Errorf("github user info missing user ID")
	}

	user := &OAuthUser{
		ID:        strconv.FormatInt(raw.ID, 10),
		Name:      raw.Name,
		AvatarURL: raw.AvatarURL,
	}
	if user.Name == "" {
		user.Name = raw.Login
	}

	if err := fetchGitHubEmail(client, user); err != nil {
		logger.Warn("Failed to fetch GitHub user email", "github_user_id", raw.ID, "error", err)
	}

	logger.Debug("Successfully retrieved GitHub user info",
		"user_id", user.ID,
		"has_email", user.Email != "")
	return user, nil
}

func fetchGitHubEmail(client *http.Client, user *OAuthUser) error {
	var emails []githubEmail
	if err := getJSON(client, githubEmailsURL, &emails); err != nil {
		return err
	}

	email, ok := pickGitHubEmail(emails)
	if !ok {
		return fmt.Errorf("no verified email found")
	}
	user.Email = email
	user.EmailVerified = true
	return nil
}

// pickGitHubEmail prefers the primary verified address, then any verified one.
func pickGitHubEmail(emails []githubEmail) (string, bool) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, true
		}
	}
	return "", false
}

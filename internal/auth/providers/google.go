package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleAPIResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(config *oauth2.Config) *GoogleProvider {
	return &GoogleProvider{config: config}
}

func (p *GoogleProvider) Name() string { return Google }

func (p *GoogleProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return exchangeCode(ctx, p.config, p.Name(), code)
}

func (p *GoogleProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	logger := slog.With("provider", Google, "operation", "get_user_info")

	var raw googleAPIResponse
	if err := getJSON(p.config.Client(ctx, token), googleUserInfoURL, &raw); err != nil {
		logger.Error("Failed to fetch Google user info", "error", err)
		return nil, fmt.Errorf("google user info: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("google user info missing user ID")
	}

	logger.Debug("Successfully retrieved Google user info",
		"user_id", raw.ID,
		"has_email", raw.Email != "",
		"email_verified", raw.VerifiedEmail)

	return &OAuthUser{
		ID:            raw.ID,
		Email:         raw.Email,
		EmailVerified: raw.VerifiedEmail,
		Name:          raw.Name,
		AvatarURL:     raw.Picture,
	}, nil
}

func exchangeCode(ctx context.Context, config *oauth2.Config, provider, code string) (*oauth2.Token, error) {
	logger := slog.With("provider", provider, "operation", "exchange_code")
	logger.Debug("Exchanging authorization code for access token")

	token, err := config.Exchange(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// getJSON issues a GET with an authorized client and decodes a 200 response.
func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

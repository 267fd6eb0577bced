package providers

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
)

const discordUserURL = "https://discord.com/api/users/@me"

var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

type discordAPIResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Email         string `json:"email"`
	Verified      bool   `json:"verified"`
	Avatar        string `json:"avatar"`
	Discriminator string `json:"discriminator"`
}

func (u *discordAPIResponse) avatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
}

func (u *discordAPIResponse) displayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

type DiscordProvider struct {
	config *oauth2.Config
}

func NewDiscordProvider(config *oauth2.Config) *DiscordProvider {
	return &DiscordProvider{config: config}
}

func (p *DiscordProvider) Name() string { return Discord }

func (p *DiscordProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *DiscordProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return exchangeCode(ctx, p.config, p.Name(), code)
}

func (p *DiscordProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUser, error) {
	logger := slog.With("provider", Discord, "operation", "get_user_info")

	var raw discordAPIResponse
	if err := getJSON(p.config.Client(ctx, token), discordUserURL, &raw); err != nil {
		logger.Error("Failed to fetch Discord user info", "error", err)
		return nil, fmt.Errorf("discord user info: %w", err)
	}

	if raw.ID == "" {
		return nil, fmt.Errorf("discord user info missing user ID")
	}

	logger.Debug("Successfully retrieved Discord user info",
		"user_id", raw.ID,
		"has_email", raw.Email != "",
		"email_verified", raw.Verified,
		"has_global_name", raw.GlobalName != "",
		"has_avatar", raw.Avatar != "")

	return &OAuthUser{
		ID:            raw.ID,
		Email:         raw.Email,
		EmailVerified: raw.Verified,
		Name:          raw.displayName(),
		AvatarURL:     raw.avatarURL(),
	}, nil
}

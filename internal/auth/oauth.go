package auth

import (
	"log/slog"

	"lifesim-server/internal/auth/providers"
	"lifesim-server/internal/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// ConfiguredProvider pairs a login provider with whether its credentials are set.
type ConfiguredProvider struct {
	Provider     providers.OAuthProvider
	IsConfigured bool
}

func oauthConfig(p config.ProviderConfig, endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURL,
		Scopes:       p.Scopes,
		Endpoint:     endpoint,
	}
}

// newProvider builds the named provider from its configured credentials.
func newProvider(name string, cfg config.OAuthConfig) (providers.OAuthProvider, config.ProviderConfig) {
	switch name {
	case providers.Google:
		return providers.NewGoogleProvider(oauthConfig(cfg.Google, google.Endpoint)), cfg.Google
	case providers.GitHub:
		return providers.NewGitHubProvider(oauthConfig(cfg.GitHub, github.Endpoint)), cfg.GitHub
	case providers.Discord:
		return providers.NewDiscordProvider(oauthConfig(cfg.Discord, providers.DiscordEndpoint)), cfg.Discord
	}
	return nil, config.ProviderConfig{}
}

// InitOAuth returns one entry per providers.Names, in that order. Providers
// without credentials are still returned so their routes answer with a clear
// error instead of a 404.
func InitOAuth() []ConfiguredProvider {
	cfg := config.GlobalConfig
	logger := slog.With("component", "oauth", "operation", "init")
	logger.Debug("Initializing OAuth configurations")

	list := make([]ConfiguredProvider, 0, len(providers.Names))
	var configured []string
	for _, name := range providers.Names {
		provider, creds := newProvider(name, cfg.OAuth)
		if provider == nil {
			continue
		}
		list = append(list, ConfiguredProvider{Provider: provider, IsConfigured: creds.Configured()})
		if creds.Configured() {
			configured = append(configured, name)
		} else {
			logger.Warn("OAuth provider not configured, login disabled", "provider", name)
		}
	}

	logger.Info("OAuth configuration completed",
		"providers", providers.Names,
		"configured", configured)

	return list
}

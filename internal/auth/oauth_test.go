package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"lifesim-server/internal/auth/providers"
	"lifesim-server/internal/shared/config"
	"lifesim-server/internal/shared/errors"
)

func TestInitOAuthFollowsProviderNames(t *testing.T) {
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		OAuth: config.OAuthConfig{
			GitHub: config.ProviderConfig{ClientID: "id", ClientSecret: "secret"},
		},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })

	list := InitOAuth()
	if len(list) != len(providers.Names) {
		t.Fatalf("InitOAuth returned %d providers, want %d", len(list), len(providers.Names))
	}
	for i, p := range list {
		if p.Provider.Name() != providers.Names[i] {
			t.Errorf("provider %d = %q, want %q", i, p.Provider.Name(), providers.Names[i])
		}
		if want := p.Provider.Name() == providers.GitHub; p.IsConfigured != want {
			t.Errorf("%s IsConfigured = %v, want %v", p.Provider.Name(), p.IsConfigured, want)
		}
	}
}

func TestLoginWithProviderRejectsBeforeStorage(t *testing.T) {
	// No repository: these cases must fail before any lookup.
	svc := &Service{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	verified := &providers.OAuthUser{ID: "1", Email: "a@b.c", EmailVerified: true}

	if _, err := svc.LoginWithProvider(context.Background(), "twitter", verified); errors.GetType(err) != errors.ErrorTypeValidation {
		t.Errorf("unknown provider: err = %v", err)
	}

	unverified := &providers.OAuthUser{ID: "1", Email: "a@b.c"}
	if _, err := svc.LoginWithProvider(context.Background(), providers.Google, unverified); errors.GetType(err) != errors.ErrorTypeUnauthorized {
		t.Errorf("unverified email: err = %v", err)
	}
}

func TestNewProviderLink(t *testing.T) {
	link := newProviderLink(7, providers.Discord, &providers.OAuthUser{ID: "42", Email: "k@x.y"})
	want := ProviderLink{PlayerID: 7, Provider: providers.Discord, ProviderUserID: "42", ProviderEmail: "k@x.y"}
	if link != want {
		t.Errorf("newProviderLink = %+v, want %+v", link, want)
	}
}

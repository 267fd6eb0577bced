package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"lifesim-server/internal/auth"
	"lifesim-server/internal/auth/providers"
	"lifesim-server/internal/middleware"
	serverHandlers "lifesim-server/internal/server/handlers"

	"golang.org/x/oauth2"
)

func newTestRoutes() *Routes {
	var list []auth.ConfiguredProvider
	cfg := &oauth2.Config{}
	for _, p := range []providers.OAuthProvider{
		providers.NewGoogleProvider(cfg),
		providers.NewGitHubProvider(cfg),
		providers.NewDiscordProvider(cfg),
	} {
		list = append(list, auth.ConfiguredProvider{Provider: p})
	}

	return NewRoutes(
		serverHandlers.NewHealthHandler(nil, nil),
		nil, nil, nil, nil, nil,
		list,
		middleware.NewPlayerRateLimiter(middleware.RateLimitConfig{}),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestRoutesMethods(t *testing.T) {
	r := newTestRoutes()
	r.Setup()

	want := []string{http.MethodGet, http.MethodOptions, http.MethodPost, http.MethodPut}
	if got := r.Methods(); !slices.Equal(got, want) {
		t.Errorf("Methods() = %v, want %v", got, want)
	}

	// A second Setup must not duplicate entries.
	r.Setup()
	if got := r.Methods(); !slices.Equal(got, want) {
		t.Errorf("Methods() after second Setup = %v, want %v", got, want)
	}
}

func TestRoutesRegisterEveryProvider(t *testing.T) {
	mux := newTestRoutes().Setup()

	for _, name := range providers.Names {
		for _, path := range []string{"/auth/" + name, "/auth/" + name + "/callback"} {
			_, pattern := mux.Handler(httptest.NewRequest(http.MethodGet, path, nil))
			if pattern != "GET "+path {
				t.Errorf("GET %s matched %q", path, pattern)
			}
		}
	}

	_, pattern := mux.Handler(httptest.NewRequest(http.MethodDelete, "/api/character", nil))
	if pattern != "" {
		t.Errorf("DELETE /api/character matched %q", pattern)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lifesim-server/internal/auth"
	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/config"
)

func withJWTSecret(t *testing.T) {
	t.Helper()
	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Auth: config.AuthConfig{JWTSecret: strings.Repeat("k", 32), TokenExpiration: time.Hour},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func TestJWTMiddleware(t *testing.T) {
	withJWTSecret(t)

	var seen *auth.Claims
	h := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/character", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing cookie: status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/character", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", rec.Code)
	}

	token, err := auth.GenerateJWT(&player.Player{ID: 9, Username: "kim", Role: player.PlayerRoleUser})
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/character", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.PlayerID != 9 {
		t.Fatalf("valid token: status %d, claims %+v", rec.Code, seen)
	}
}

func TestAdminMiddleware(t *testing.T) {
	h := AdminMiddleware(okHandler())

	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"user", &auth.Claims{PlayerID: 1, Role: player.PlayerRoleUser}, http.StatusForbidden},
		{"unknown role", &auth.Claims{PlayerID: 1, Role: "superuser"}, http.StatusForbidden},
		{"admin", &auth.Claims{PlayerID: 1, Role: player.PlayerRoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
			if tt.claims != nil {
				req = req.WithContext(WithUser(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

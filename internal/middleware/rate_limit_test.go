package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifesim-server/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 2})
	h := rl.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("status codes = %v", codes)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/game/state", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client got %d", rec.Code)
	}
}

func TestRateLimiterRetryAfterHeader(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 1})
	h := rl.Middleware(okHandler())

	var rec *httptest.ResponseRecorder
	for range 2 {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("status %d, Retry-After %q", rec.Code, rec.Header().Get("Retry-After"))
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, BurstSize: 1})
	h := rl.Middleware(okHandler())

	for i := range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d got %d", i, rec.Code)
		}
	}
}

func TestPlayerRateLimiterKeysByPlayer(t *testing.T) {
	rl := NewPlayerRateLimiter(RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 1})
	h := rl.Middleware(okHandler())

	send := func(playerID int) int {
		req := httptest.NewRequest(http.MethodPost, "/api/game/rewards/daily", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req = req.WithContext(WithUser(req.Context(), &auth.Claims{PlayerID: playerID}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if send(1) != http.StatusOK || send(2) != http.StatusOK {
		t.Fatal("players behind one IP should have separate buckets")
	}
	if send(1) != http.StatusTooManyRequests {
		t.Fatal("player 1 should be limited")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true, RequestsPerSecond: 10, BurstSize: 1})
	rl.getLimiter("ip:a").Allow()
	rl.getLimiter("ip:b")

	if removed := rl.cleanup(time.Now().Add(time.Hour)); removed != 2 {
		t.Errorf("removed %d idle clients, want 2", removed)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		xff        string
		trustProxy bool
		want       string
	}{
		{"remote addr", "192.168.1.1:1234", "", false, "192.168.1.1"},
		{"xff ignored without trust", "192.168.1.1:1234", "1.2.3.4", false, "192.168.1.1"},
		{"xff first entry", "192.168.1.1:1234", "1.2.3.4, 10.0.0.1", true, "1.2.3.4"},
		{"no port", "unix", "", false, "unix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := getClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"

	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	Enabled           bool
	TrustProxy        bool
}

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

type RateLimiter struct {
	config  RateLimitConfig
	key     KeyFunc
	clients map[string]*rate.Limiter
	mu      sync.Mutex
}

// NewRateLimiter limits by client IP.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return NewKeyedRateLimiter(config, func(r *http.Request) string {
		return "ip:" + getClientIP(r, config.TrustProxy)
	})
}

// NewPlayerRateLimiter limits by authenticated player and falls back to the
// client IP. It must run behind JWTMiddleware.
func NewPlayerRateLimiter(config RateLimitConfig) *RateLimiter {
	return NewKeyedRateLimiter(config, func(r *http.Request) string {
		if claims := GetUserFromContext(r); claims != nil {
			return "player:" + strconv.Itoa(claims.PlayerID)
		}
		return "ip:" + getClientIP(r, config.TrustProxy)
	})
}

func NewKeyedRateLimiter(config RateLimitConfig, key KeyFunc) *RateLimiter {
	return &RateLimiter{
		config:  config,
		key:     key,
		clients: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.clients[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
		rl.clients[key] = limiter
	}
	return limiter
}

// StartCleanup forgets idle clients every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	if !rl.config.Enabled {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

// cleanup drops limiters whose bucket has refilled, i.e. clients that have
// been idle long enough to be indistinguishable from new ones.
func (rl *RateLimiter) cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, limiter := range rl.clients {
		if limiter.TokensAt(now) >= float64(rl.config.BurstSize) {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.key(r)
		limiter := rl.getLimiter(key)

		if !limiter.Allow() {
			logger := slog.With(
				"middleware", "rate_limit",
				"client", key,
				"requests_per_second", rl.config.RequestsPerSecond,
				"burst_size", rl.config.BurstSize,
			)
			response.Error(w, r, logger, errors.TooSoon("rate limit exceeded", time.Second))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// X-Forwarded-For can be comma-separated; first entry is the client
			if i := strings.IndexByte(xff, ','); i != -1 {
				return strings.TrimSpace(xff[:i])
			}
			return strings.TrimSpace(xff)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package server

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"lifesim-server/internal/auth"
	authHandlers "lifesim-server/internal/auth/handlers"
	"lifesim-server/internal/event"
	"lifesim-server/internal/game"
	gameHandlers "lifesim-server/internal/game/handlers"
	"lifesim-server/internal/middleware"
	"lifesim-server/internal/player"
	playerHandler "lifesim-server/internal/player/handlers"
	serverHandlers "lifesim-server/internal/server/handlers"
)

type Routes struct {
	health        *serverHandlers.HealthHandler
	playerService *player.Service
	authService   *auth.Service
	gameService   *game.Service
	events        *event.Catalog
	levels        *game.LevelCatalog
	providers     []auth.ConfiguredProvider
	playerLimiter *middleware.RateLimiter
	logger        *slog.Logger
	methods       []string
}

func NewRoutes(
	health *serverHandlers.HealthHandler,
	playerService *player.Service,
	authService *auth.Service,
	gameService *game.Service,
	events *event.Catalog,
	levels *game.LevelCatalog,
	providers []auth.ConfiguredProvider,
	playerLimiter *middleware.RateLimiter,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		health:        health,
		playerService: playerService,
		authService:   authService,
		gameService:   gameService,
		events:        events,
		levels:        levels,
		providers:     providers,
		playerLimiter: playerLimiter,
		logger:        logger,
	}
}

// playerRoute wraps a game endpoint: authentication first, then the per-player limiter.
func (r *Routes) playerRoute(h http.HandlerFunc) http.Handler {
	return middleware.JWTMiddleware(r.playerLimiter.Middleware(h))
}

// handle registers a method-qualified pattern and records its method for CORS.
func (r *Routes) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	if method, _, ok := strings.Cut(pattern, " "); ok && !slices.Contains(r.methods, method) {
		r.methods = append(r.methods, method)
	}
	mux.Handle(pattern, h)
}

// Methods returns the methods of every route registered by Setup, plus
// OPTIONS for preflight requests.
func (r *Routes) Methods() []string {
	methods := append(slices.Clone(r.methods), http.MethodOptions)
	slices.Sort(methods)
	return methods
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	r.methods = nil

	gameStatusHandler := gameHandlers.NewGameStatusHandler(r.playerService, r.levels, r.events)
	playersHandler := playerHandler.NewPlayersHandler(r.playerService)
	meHandler := playerHandler.NewMeHandler(r.playerService)
	guestHandler := authHandlers.NewGuestHandler(r.playerService)

	characterHandler := gameHandlers.NewCharacterHandler(r.gameService)
	gameHandler := gameHandlers.NewGameHandler(r.gameService)
	rewardsHandler := gameHandlers.NewRewardsHandler(r.gameService)

	// Public endpoints
	r.handle(mux, "GET /api/server/health", r.health)
	r.handle(mux, "GET /api/game/status", gameStatusHandler)

	// Protected endpoints (authenticated users)
	r.handle(mux, "GET /api/players/me", middleware.JWTMiddleware(meHandler))

	r.handle(mux, "POST /api/character", r.playerRoute(characterHandler.Create))
	r.handle(mux, "GET /api/character", r.playerRoute(characterHandler.Get))
	r.handle(mux, "POST /api/character/rewind", r.playerRoute(characterHandler.Rewind))

	r.handle(mux, "GET /api/game/state", r.playerRoute(gameHandler.GetState))
	r.handle(mux, "GET /api/game/levels", r.playerRoute(gameHandler.GetLevels))
	r.handle(mux, "POST /api/game/levels/{id}/start", r.playerRoute(gameHandler.StartLevel))
	r.handle(mux, "POST /api/game/abandon", r.playerRoute(gameHandler.Abandon))
	r.handle(mux, "GET /api/game/events/next", r.playerRoute(gameHandler.NextEvent))
	r.handle(mux, "POST /api/game/events/{id}/choose", r.playerRoute(gameHandler.Choose))

	r.handle(mux, "POST /api/game/rewards/daily", r.playerRoute(rewardsHandler.ClaimDaily))
	r.handle(mux, "GET /api/game/achievements", r.playerRoute(rewardsHandler.GetAchievements))
	r.handle(mux, "PUT /api/game/settings", r.playerRoute(rewardsHandler.UpdateSettings))

	// Admin-only endpoints (authenticated + admin role)
	r.handle(mux, "GET /api/players", middleware.RequireAdmin(playersHandler))

	// Auth endpoints
	authEndpoints := []string{"/auth/guest", "/auth/logout"}
	for _, p := range r.providers {
		h := authHandlers.NewOAuthHandler(p.Provider, r.authService, p.IsConfigured)
		path := "/auth/" + p.Provider.Name()
		r.handle(mux, "GET "+path, http.HandlerFunc(h.HandleAuth))
		r.handle(mux, "GET "+path+"/callback", http.HandlerFunc(h.HandleCallback))
		authEndpoints = append(authEndpoints, path)
	}
	r.handle(mux, "POST /auth/guest", guestHandler)
	r.handle(mux, "POST /auth/logout", http.HandlerFunc(authHandlers.Logout))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/game/status"},
		"protected_endpoints", []string{"/api/players/me", "/api/character", "/api/game/*"},
		"admin_endpoints", []string{"/api/players"},
		"auth_endpoints", authEndpoints,
		"methods", r.Methods(),
	)

	return mux
}

package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/event"
	"lifesim-server/internal/game"
	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"
)

type GameStatusResponse struct {
	Game              string `json:"game"`
	Levels            int    `json:"levels"`
	Events            int    `json:"events"`
	RegisteredPlayers int    `json:"registered_players"`
}

type GameStatusHandler struct {
	playerService *player.Service
	levels        *game.LevelCatalog
	events        *event.Catalog
}

func NewGameStatusHandler(playerService *player.Service, levels *game.LevelCatalog, events *event.Catalog) *GameStatusHandler {
	return &GameStatusHandler{playerService: playerService, levels: levels, events: events}
}

func (h *GameStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "game_status")

	playerCount, err := h.playerService.GetPlayerCount(ctx)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to get player count", err))
		return
	}

	resp := GameStatusResponse{
		Game:              "LifeSim",
		Levels:            h.levels.Len(),
		Events:            h.events.Len(),
		RegisteredPlayers: playerCount,
	}

	response.Success(w, http.StatusOK, resp)
}

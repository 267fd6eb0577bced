package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"
)

type PlayersHandler struct {
	service *player.Service
}

func NewPlayersHandler(service *player.Service) *PlayersHandler {
	return &PlayersHandler{service: service}
}

func (h *PlayersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "players", "remote_addr", r.RemoteAddr)
	logger.Debug("Players list requested")

	players, err := h.service.GetAllPlayers(ctx)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to fetch players", err))
		return
	}

	if players == nil {
		players = []player.Player{}
	}

	response.Success(w, http.StatusOK, players)
	logger.Debug("Players list completed", "player_count", len(players))
}

package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/auth"
	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/cookies"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"
)

// GuestHandler signs a new anonymous player in.
type GuestHandler struct {
	playerService *player.Service
}

func NewGuestHandler(playerService *player.Service) *GuestHandler {
	return &GuestHandler{playerService: playerService}
}

func (h *GuestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "guest_login", "ip", r.RemoteAddr)

	p, err := h.playerService.CreateGuestPlayer(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	token, err := auth.GenerateJWT(p)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to issue session", err))
		return
	}

	cookies.SetAuthCookie(w, token)
	logger.Info("Guest signed in", "player_id", p.ID)

	response.Success(w, http.StatusCreated, p)
}

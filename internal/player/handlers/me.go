package handlers

import (
	"log/slog"
	"net/http"

	"lifesim-server/internal/middleware"
	"lifesim-server/internal/player"
	"lifesim-server/internal/shared/errors"
	"lifesim-server/internal/shared/response"
)

type MeHandler struct {
	service *player.Service
}

func NewMeHandler(service *player.Service) *MeHandler {
	return &MeHandler{service: service}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	p, err := h.service.GetPlayerByID(r.Context(), claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}
